package handlers

// Ограничения на вводимые данные
const (
	maxNameLength        = 100
	maxEmailLength       = 254
	minPasswordLength    = 6
	maxPasswordLength    = 128
	maxPhoneLength       = 20
	maxAddressLength     = 300
	maxFacilityNameLen   = 100
	maxDescriptionLength = 1000
	maxLocationLength    = 200
	maxImageURLLength    = 500
	maxPricePerHour      = 1_000_000
)
