package lib

import (
	"context"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/go-resty/resty/v2"
)

const (
	probeTimeout    = 10 * time.Second
	probeRetryCount = 3
	probeRetryWait  = 2 * time.Second
)

// ProbeURL sends a GET request to url and returns the status code of the response.
// Server errors are retried, since a freshly created site may take a moment to start.
func ProbeURL(ctx context.Context, url string) (int, error) {
	res, err := resty.New().
		SetTimeout(probeTimeout).
		SetRetryCount(probeRetryCount).
		SetRetryWaitTime(probeRetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to make request to %s", url)
	}

	return res.StatusCode(), nil
}
