package config

import "github.com/ayoisaiah/cashtimer/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidValue = &apperr.Error{
		Message: "invalid value for %s: %q",
	}

	errNegativeRate = &apperr.Error{
		Message: "hourly rate cannot be negative, got %s",
	}

	errInvalidCurrency = &apperr.Error{
		Message: "%s must be a three letter currency code (e.g. USD), got %q",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s must be between %v and %v, got %v",
	}

	errUnknownDriver = &apperr.Error{
		Message: "unknown store driver %q: expected 'bolt' or 'sqlite'",
	}

	errInvalidURL = &apperr.Error{
		Message: "exchange rate URL must be an http(s) URL, got %q",
	}
)
