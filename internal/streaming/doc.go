/*
Package streaming delivers converted files to HTTP clients with timeout protection.

A slow or vanished client must not pin a finished conversion's artifacts on disk
forever: the artifacts are only released once delivery returns. [TimeoutWriter]
bounds every write with a deadline set through [http.ResponseController] and
stops as soon as the request context is canceled.

# Basic Usage

	n, err := streaming.ServeAttachment(r.Context(), w, streaming.File{
		Path:        result.OutputPath,
		Name:        result.DownloadName,
		ContentType: "video/mp4",
	}, streaming.DefaultConfig())

ServeAttachment sets Content-Type, Content-Length and an attachment
Content-Disposition before writing the body. Errors returned after the
headers were sent can only be logged.

# Errors

  - [ErrWriteTimeout]: a single write exceeded Config.WriteTimeout, or the
    whole transfer exceeded Config.MaxDuration
  - [ErrClientGone]: the request context was canceled mid-transfer
  - [ErrStreamCanceled]: the writer was closed before the transfer finished
*/
package streaming
