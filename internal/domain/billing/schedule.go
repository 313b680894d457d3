package billing

import (
	"time"

	"rental-app-go/internal/domain/lifecycle"
)

const DefaultPaymentDay = 5

// DueDates returns one rent due date per calendar month of the lease. The
// cursor starts on the start date and advances one calendar month at a time
// until it passes the end date; each step yields the payment day of the
// cursor's month. Days past the end of a short month clamp to its last day.
func DueDates(start, end time.Time, paymentDay int) []time.Time {
	if paymentDay < 1 || paymentDay > 31 {
		paymentDay = DefaultPaymentDay
	}
	start = lifecycle.DateOf(start)
	end = lifecycle.DateOf(end)
	if end.Before(start) {
		return nil
	}

	anchorDay := start.Day()
	year, month := start.Year(), start.Month()
	var dates []time.Time
	for {
		days := lifecycle.DaysIn(year, month)
		cursor := time.Date(year, month, min(anchorDay, days), 0, 0, 0, 0, time.UTC)
		if cursor.After(end) {
			break
		}
		dates = append(dates, time.Date(year, month, min(paymentDay, days), 0, 0, 0, 0, time.UTC))

		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return dates
}

func buildRentBills(terms ContractTerms, newID func() string) []Payment {
	dates := DueDates(terms.StartDate, terms.EndDate, terms.PaymentDay)
	bills := make([]Payment, 0, len(dates))
	for _, due := range dates {
		bills = append(bills, Payment{
			ID:          newID(),
			ContractID:  terms.ContractID,
			PropertyID:  terms.PropertyID,
			TenantID:    terms.TenantID,
			LandlordID:  terms.LandlordID,
			Amount:      terms.RentAmount,
			PaymentType: PaymentTypeRent,
			DueDate:     due,
			Status:      StatusPending,
			Version:     1,
		})
	}
	return bills
}
