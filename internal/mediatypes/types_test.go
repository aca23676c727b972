package mediatypes

import (
	"testing"
)

func TestGetFileType(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want FileType
	}{
		{name: "MOV video", ext: ".mov", want: FileTypeVideo},
		{name: "MP4 video", ext: ".mp4", want: FileTypeVideo},
		{name: "WebM video", ext: ".webm", want: FileTypeVideo},
		{name: "Image is other", ext: ".jpg", want: FileTypeOther},
		{name: "Unknown extension", ext: ".xyz", want: FileTypeOther},
		{name: "Empty extension", ext: "", want: FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetFileType(tt.ext); got != tt.want {
				t.Errorf("GetFileType(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestGetMimeType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".mp4", "video/mp4"},
		{".mov", "video/quicktime"},
		{".mkv", "video/x-matroska"},
		{".txt", "application/octet-stream"},
		{"", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := GetMimeType(tt.ext); got != tt.want {
				t.Errorf("GetMimeType(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestOutputExtensionIsMP4(t *testing.T) {
	if GetMimeType(OutputExtension) != "video/mp4" {
		t.Errorf("output extension %q does not map to video/mp4", OutputExtension)
	}
}

func TestExtensionForMime(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"video/quicktime", ".mov"},
		{"Video/QuickTime", ".mov"},
		{"video/mp4; codecs=avc1", ".mp4"},
		{"application/octet-stream", ""},
		{"", ""},
		{"not a media type;;", ""},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := ExtensionForMime(tt.contentType); got != tt.want {
				t.Errorf("ExtensionForMime(%q) = %q, want %q", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestUploadExtension(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        string
		wantType    FileType
	}{
		{"known extension wins", "clip.MOV", "video/mp4", ".mov", FileTypeVideo},
		{"falls back to content type", "clip", "video/quicktime", ".mov", FileTypeVideo},
		{"unknown extension uses content type", "clip.bin", "video/webm", ".webm", FileTypeVideo},
		{"unknown everything keeps extension", "clip.bin", "application/octet-stream", ".bin", FileTypeOther},
		{"text file stays other", "notes.txt", "text/plain", ".txt", FileTypeOther},
		{"nothing known", "clip", "", "", FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UploadExtension(tt.filename, tt.contentType)
			if got != tt.want {
				t.Errorf("UploadExtension(%q, %q) = %q, want %q", tt.filename, tt.contentType, got, tt.want)
			}
			if ft := GetFileType(got); ft != tt.wantType {
				t.Errorf("GetFileType(%q) = %v, want %v", got, ft, tt.wantType)
			}
		})
	}
}

func TestMimeTypesCoverVideoExtensions(t *testing.T) {
	for ext := range VideoExtensions {
		if _, ok := MimeTypes[ext]; !ok {
			t.Errorf("extension %q has no MIME type", ext)
		}
	}
	for m, ext := range extensionsByMime {
		if GetMimeType(ext) != m {
			t.Errorf("extensionsByMime[%q] = %q, which maps back to %q", m, ext, GetMimeType(ext))
		}
	}
}
