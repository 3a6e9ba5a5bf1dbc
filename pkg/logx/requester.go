package logx

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/requester/middleware"
	"github.com/samber/lo"
)

// RoundTripperOpts contains options for the client logger.
type RoundTripperOpts struct {
	Level         slog.Level
	SecretHeaders []string
}

// LoggingRoundTripper logs every outgoing client request with its status
// and elapsed time, masking values of secret headers.
func LoggingRoundTripper(lg *slog.Logger, opts RoundTripperOpts) middleware.RoundTripperHandler {
	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			headers := map[string]string{}
			for k, vals := range req.Header {
				if lo.Contains(opts.SecretHeaders, k) {
					headers[k] = "***"
					continue
				}
				headers[k] = strings.Join(vals, ",")
			}

			lg.LogAttrs(req.Context(), opts.Level, "request sent",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Any("headers", headers),
			)

			start := time.Now()
			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)

			if err != nil {
				lg.LogAttrs(req.Context(), slog.LevelWarn, "request failed",
					slog.String("url", req.URL.String()),
					slog.Any("elapsed", elapsed),
					slog.Any("err", err),
				)
				return resp, err
			}

			lg.LogAttrs(req.Context(), opts.Level, "response received",
				slog.String("url", req.URL.String()),
				slog.Int("status", resp.StatusCode),
				slog.Any("elapsed", elapsed),
			)

			return resp, nil
		})
	}
}
