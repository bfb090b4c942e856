package models

// CircuitBreakerState mirrors the breaker states exported as a gauge.
type CircuitBreakerState int
