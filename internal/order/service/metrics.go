package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "orders_created_total",
	Help: "Total number of orders accepted for processing.",
})

var ordersCancelled = promauto.NewCounter(prometheus.CounterOpts{
	Name: "orders_cancelled_total",
	Help: "Total number of orders cancelled by their owners.",
})
