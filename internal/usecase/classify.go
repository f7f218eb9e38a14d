package usecase

import (
	"WalletScope/internal/domain/models"
)

// Classification rule thresholds.
const (
	coordinatedLinkedCount = 3
	sophisticatedFunding   = 10000
	freshLargeAgeDays      = 14
	freshLargeFunding      = 5000
	singleBetTrades        = 10
	singleBetFunding       = 2000
	diversifiedMarkets     = 5
)

// Classify applies an ordered decision list: rules are mutually exclusive
// checks evaluated in a fixed severity order, not independent votes. The
// first matching rule wins; reordering these breaks output compatibility.
func (e *ClassifierEngine) Classify(r *models.TraceResult) models.Classification {
	siblings := r.SiblingCount()
	fundedMembers := r.FundedMemberCount()
	now := e.nowFn()

	if siblings+fundedMembers >= coordinatedLinkedCount {
		return models.ClassCoordinated
	}

	if r.HasBridgeFunding() {
		if r.Trading != nil && r.Trading.MarketsTraded <= concentratedMarkets &&
			r.TotalFunded >= sophisticatedFunding {
			return models.ClassSophisticated
		}
		return models.ClassCrossChainReview
	}

	if age := r.Trading.AccountAgeDays(now); age >= 0 && age < freshLargeAgeDays {
		if r.TotalFunded >= freshLargeFunding {
			return models.ClassFreshLargeFunds
		}
	}

	if r.Trading != nil && r.Trading.TotalTrades < singleBetTrades &&
		r.Trading.MarketsTraded == 1 && r.TotalFunded >= singleBetFunding {
		return models.ClassSingleBet
	}

	if fundedMembers > 0 {
		return models.ClassFundsMembers
	}

	if siblings == 1 || siblings == 2 {
		return models.ClassSomeLinked
	}

	if siblings == 0 && !r.HasBridgeFunding() {
		if r.Trading != nil && r.Trading.MarketsTraded >= diversifiedMarkets {
			return models.ClassRetailDiverse
		}
		return models.ClassRetail
	}

	return models.ClassInconclusive
}
