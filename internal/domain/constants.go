package domain

import "time"

// Default values
const (
	// DefaultPollInterval интервал перечитывания статуса оплаты,
	// пока он Pending
	DefaultPollInterval = 5 * time.Second

	// DefaultQuantity количество по умолчанию при добавлении в корзину
	DefaultQuantity = 1
)

// Business validation constants
const (
	MinQuantity      = 1
	MaxQuantity      = 99
	MaxNameLength    = 120
	MaxContentLength = 1000
	MaxMobileLength  = 20
	MinMobileLength  = 8
)
