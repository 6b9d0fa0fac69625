package monitor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// HealthURL builds the probed endpoint for a target domain.
func HealthURL(domain string) string {
	return fmt.Sprintf("https://%s/health", domain)
}

// Probe performs a single health check per Check call. All failure modes are
// folded into the returned Outcome; Check never returns an error and never
// retries.
type Probe struct {
	url           string
	client        *http.Client
	timeout       time.Duration
	slowThreshold time.Duration
	log           *zap.Logger
}

func NewProbe(url string, client *http.Client, timeout, slowThreshold time.Duration, log *zap.Logger) *Probe {
	return &Probe{
		url:           url,
		client:        client,
		timeout:       timeout,
		slowThreshold: slowThreshold,
		log:           log,
	}
}

// Check executes one GET against the health endpoint. A 200 response is the
// only success; any other status yields a "Bad status code" outcome. Network
// failures are classified into stable, prefix-distinguishable categories so
// logs and consumers can branch on them.
func (p *Probe) Check(ctx context.Context) Outcome {
	out := Outcome{Timestamp: time.Now()}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		out.Error = "Unexpected error: " + err.Error()
		p.log.Error("request build failed", zap.String("url", p.url), zap.Error(err))
		return out
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		out.Error = p.classify(err)
		p.log.Error("check request failed", zap.String("url", p.url), zap.String("reason", out.Error))
		return out
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	out.ResponseTime = time.Since(start)
	out.StatusCode = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		out.Error = fmt.Sprintf("Bad status code: %d", resp.StatusCode)
		return out
	}

	out.Success = true
	if out.ResponseTime > p.slowThreshold {
		p.log.Warn("slow response", zap.Duration("response_time", out.ResponseTime))
	}
	return out
}

// classify maps a transport error to its category. Order matters: certificate
// problems surface wrapped in timeouts and connection errors, so TLS is
// checked first, then timeout, then connection.
func (p *Probe) classify(err error) string {
	switch {
	case isCertificateError(err):
		return "SSL Error: " + err.Error()
	case isTimeoutError(err):
		return fmt.Sprintf("Timeout after %ds", int(p.timeout/time.Second))
	case isConnectionError(err):
		return "Connection error: " + err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}

func isCertificateError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidCert x509.CertificateInvalidError
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidCert)
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}
