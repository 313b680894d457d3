package billing

import "time"

func Summarize(payments []Payment, now time.Time) Summary {
	var summary Summary
	for _, payment := range payments {
		switch payment.EffectiveStatus(now) {
		case StatusPending:
			summary.PendingCount++
			summary.PendingAmount += payment.Amount
		case StatusOverdue:
			summary.OverdueCount++
			summary.OverdueAmount += payment.Amount
		case StatusPaid:
			summary.PaidCount++
			summary.PaidAmount += payment.Amount
		case StatusConfirmed:
			summary.ConfirmedCount++
			summary.ConfirmedAmount += payment.Amount
		}
	}
	return summary
}
