package payroll

import "errors"

var (
	ErrValidationNotFound = errors.New("payroll validation not found")
	ErrUnreadableFile     = errors.New("csv file is corrupted or cannot be parsed")
	ErrEmptyFile          = errors.New("csv file contains no data")
)
