// Package payments is the booking payment and escrow engine: capture
// processing, milestone escrow, refunds, vendor payouts and invoice
// aggregation. All amounts are integer minor units; every financial
// mutation runs inside a row-locked database transaction so multiple
// stateless instances can run side by side.
package payments

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// splitFee divides an amount into platform fee and vendor payout using a
// basis-point rate. Integer arithmetic keeps fee + payout == amount exact.
func splitFee(amount, feeBps int64) (platformFee, vendorPayout int64) {
	platformFee = amount * feeBps / 10000
	return platformFee, amount - platformFee
}

// forUpdate adds a row-level lock to the query. sqlite, used by the test
// suite, has no row locks and rejects FOR UPDATE; it is single-writer there
// anyway.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
