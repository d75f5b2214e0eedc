package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/guthdx/statuswatch/internal/domain"
)

// DefaultTimeout is the hard wall-clock bound on one HTTP probe.
const DefaultTimeout = 10 * time.Second

type HTTPChecker struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPChecker builds a checker with head-only semantics and no redirect
// following: a redirect response is itself evidence the server is reachable.
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPChecker{
		Client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Timeout: timeout,
	}
}

func (h *HTTPChecker) Check(ctx context.Context, svc domain.Service) Outcome {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, svc.URL, nil)
	if err != nil {
		return Outcome{Status: domain.StatusOffline, ErrorMessage: err.Error()}
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Outcome{
				Status:       domain.StatusOffline,
				ErrorMessage: fmt.Sprintf("Timeout (>%ds)", int(h.Timeout/time.Second)),
			}
		}
		return Outcome{Status: domain.StatusOffline, ErrorMessage: failureText(err)}
	}
	defer resp.Body.Close()

	ms := time.Since(start).Milliseconds()
	status, msg := classifyHTTP(resp.StatusCode)
	return Outcome{Status: status, ResponseTimeMS: &ms, ErrorMessage: msg}
}

// classifyHTTP maps a received status code to a check status. 2xx/3xx are
// online; 401 and 403 are online too, since an auth challenge proves the
// server is live. Anything else received is degraded, not offline.
func classifyHTTP(code int) (domain.Status, string) {
	if (code >= 200 && code < 400) || code == http.StatusUnauthorized || code == http.StatusForbidden {
		return domain.StatusOnline, ""
	}
	return domain.StatusDegraded, fmt.Sprintf("HTTP %d", code)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// failureText strips the url.Error envelope so the stored message is the
// underlying transport failure, not the full request line.
func failureText(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}
