package transfer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	grantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_presign_grants_total",
			Help: "Presigned URL issuance attempts by direction, backend kind and result.",
		},
		[]string{"direction", "kind", "result"},
	)

	confirmationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_confirmations_total",
			Help: "Transfer confirmations by resulting status.",
		},
		[]string{"status"},
	)

	rollbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_create_rollbacks_total",
		Help: "Transfer records deleted because upload URL issuance failed.",
	})

	localTransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_local_transfers_total",
			Help: "Transfers served through local storage by direction and result.",
		},
		[]string{"direction", "result"},
	)

	sweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_sweep_marked_total",
		Help: "Unconfirmed transfers marked as having a file by the reconcile sweep.",
	})
)
