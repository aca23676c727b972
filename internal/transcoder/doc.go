// Package transcoder converts uploaded videos to MP4 using FFmpeg.
//
// It supports:
//   - Probing the input with ffprobe to reject non-media files early
//   - Converting to H.264/AAC in an MP4 container with faststart
//   - Reporting progress as a percentage derived from FFmpeg's -progress stream
//   - Killing in-flight FFmpeg processes on shutdown
//
// A conversion only succeeds when FFmpeg exits cleanly, reports progress=end
// and leaves a non-empty output file. Every other outcome is a [*TranscodeError]
// and the output artifact is released before returning.
//
// FFmpeg and ffprobe must be installed; their paths are configurable.
package transcoder
