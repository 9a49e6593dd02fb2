package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ordersProcessed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "processor_orders_processed_total",
	Help: "Orders that completed the fulfillment pipeline.",
})

var ordersCancelled = promauto.NewCounter(prometheus.CounterOpts{
	Name: "processor_orders_cancelled_total",
	Help: "Orders cancelled by the pipeline (stock or payment failures).",
})

var ordersRetried = promauto.NewCounter(prometheus.CounterOpts{
	Name: "processor_orders_retried_total",
	Help: "Messages nacked back to the queue for redelivery.",
})

var paymentsDeclined = promauto.NewCounter(prometheus.CounterOpts{
	Name: "processor_payments_declined_total",
	Help: "Charges declined by the payment gateway.",
})
