package booking

import (
	"fmt"

	"github.com/example/fumoto-monitor/internal/domain/page"
)

var (
	ErrMonthNotFound         = fmt.Errorf("month button: %w", page.ErrNotFound)
	ErrDateCellNotFound      = fmt.Errorf("date cell: %w", page.ErrNotFound)
	ErrDateCellIndexInvalid  = fmt.Errorf("date cell index out of range: %w", page.ErrNotFound)
	ErrNightsNotFound        = fmt.Errorf("nights option: %w", page.ErrNotFound)
	ErrProceedButtonNotFound = fmt.Errorf("proceed button: %w", page.ErrNotFound)
	ErrArrivalTimeNotFound   = fmt.Errorf("arrival time option: %w", page.ErrNotFound)
	ErrGuestInputNotFound    = fmt.Errorf("guest count input: %w", page.ErrNotFound)
	ErrNextButtonNotFound    = fmt.Errorf("next button: %w", page.ErrNotFound)
	ErrConfirmButtonNotFound = fmt.Errorf("confirm button: %w", page.ErrNotFound)
)
