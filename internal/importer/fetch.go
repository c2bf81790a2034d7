package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrFetch is returned when the spreadsheet URL cannot be downloaded.
var ErrFetch = errors.New("fetch spreadsheet")

// Fetcher downloads spreadsheet bytes. Failures are not retried.
type Fetcher struct {
	client   *resty.Client
	maxBytes int64
	logger   *zap.Logger
}

// NewFetcher builds a Fetcher. Responses larger than maxBytes fail with
// ErrFetch; maxBytes <= 0 disables the cap.
func NewFetcher(timeout time.Duration, maxBytes int64, logger *zap.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, text/csv, */*")
	if maxBytes > 0 {
		client.SetResponseBodyLimit(int(maxBytes))
	}

	return &Fetcher{
		client:   client,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		f.logger.Warn("spreadsheet download failed", zap.String("url", url), zap.Error(err))
		if errors.Is(err, resty.ErrResponseBodyTooLarge) {
			return nil, fmt.Errorf("%w: response larger than %d bytes", ErrFetch, f.maxBytes)
		}
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if !resp.IsSuccess() {
		f.logger.Warn("spreadsheet download rejected",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("%w: %s", ErrFetch, resp.Status())
	}

	f.logger.Debug("spreadsheet downloaded",
		zap.String("url", url),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("took", time.Since(start)),
	)
	return resp.Body(), nil
}
