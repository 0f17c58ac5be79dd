package santander

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultPollInterval           = 2 * time.Second
	defaultMaxChecksBeforeConfirm = 10
	defaultMaxChecksAfterConfirm  = 120
	defaultReceiptRecreationDelay = 500 * time.Millisecond
	defaultMaxReceiptChecks       = 30
)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	pollInterval           time.Duration
	maxChecksBeforeConfirm int
	maxChecksAfterConfirm  int
	receiptRecreationDelay time.Duration
	maxReceiptChecks       int
}

// Option customiza o cliente, o fluxo PIX e os comprovantes
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		logger:                 NopLogger(),
		now:                    time.Now,
		pollInterval:           defaultPollInterval,
		maxChecksBeforeConfirm: defaultMaxChecksBeforeConfirm,
		maxChecksAfterConfirm:  defaultMaxChecksAfterConfirm,
		receiptRecreationDelay: defaultReceiptRecreationDelay,
		maxReceiptChecks:       defaultMaxReceiptChecks,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithHTTPClient usa um cliente HTTP próprio (o timeout e o mTLS ficam por conta dele)
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithLogger injeta o logger estruturado. Sem ele, nada é logado.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock troca a fonte de tempo do gerenciador de tokens
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithPollInterval ajusta o intervalo entre consultas de status
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithMaxChecksBeforeConfirm ajusta as consultas até READY_TO_PAY
func WithMaxChecksBeforeConfirm(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxChecksBeforeConfirm = n
		}
	}
}

// WithMaxChecksAfterConfirm ajusta as consultas até PAYED
func WithMaxChecksAfterConfirm(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxChecksAfterConfirm = n
		}
	}
}

// WithReceiptRecreationDelay ajusta a espera antes de recriar um comprovante morto
func WithReceiptRecreationDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.receiptRecreationDelay = d
		}
	}
}

// WithMaxReceiptChecks ajusta as consultas até o comprovante ficar AVAILABLE
func WithMaxReceiptChecks(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxReceiptChecks = n
		}
	}
}
