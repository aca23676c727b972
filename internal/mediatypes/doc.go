// Package mediatypes maps video file extensions to MIME types and back.
//
// Uploads carry a client file name and a part Content-Type, either of which
// may be missing or wrong. [UploadExtension] picks the extension the stored
// input artifact gets:
//
//	ext := mediatypes.UploadExtension(part.FileName(), part.Header.Get("Content-Type"))
//
// The engine inspects the content itself, so an unrecognized upload is still
// accepted; the extension only helps ffmpeg pick a demuxer and keeps the
// scratch directory readable.
//
// # MIME Types
//
// Use GetMimeType to get the Content-Type of a response body:
//
//	mimeType := mediatypes.GetMimeType(".mp4") // "video/mp4"
package mediatypes
