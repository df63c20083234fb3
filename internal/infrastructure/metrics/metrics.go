package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsCreated prometheus.Counter

	// Ledger metrics
	DepositsCreated    prometheus.Counter
	WithdrawalsCreated prometheus.Counter
	WithdrawalDeclines prometheus.Counter
	TransfersCreated   prometheus.Counter
	TransferErrors     *prometheus.CounterVec
	TransactionAmount  *prometheus.HistogramVec

	// Loan metrics
	LoansCreated   prometheus.Counter
	LoansCompleted prometheus.Counter
	LoanPayments   prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics and registers them with reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		DepositsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_deposits_total",
			Help: "Total number of deposits recorded",
		}),
		WithdrawalsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_withdrawals_total",
			Help: "Total number of withdrawals recorded",
		}),
		WithdrawalDeclines: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_withdrawal_declines_total",
			Help: "Total number of withdrawals declined for insufficient funds",
		}),
		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_transfers_total",
			Help: "Total number of transfers completed",
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_transaction_amount",
				Help:    "Transaction amounts by kind",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind"},
		),

		LoansCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_loans_created_total",
			Help: "Total number of loans disbursed",
		}),
		LoansCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_loans_completed_total",
			Help: "Total number of loans fully repaid",
		}),
		LoanPayments: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_loan_payments_total",
			Help: "Total number of loan payments recorded",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}
