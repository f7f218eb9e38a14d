package models

// Classification is the closed set of risk labels the engine can assign.
// Rendering (icons, prose) is a presentation concern outside the core.
type Classification string

const (
	ClassCoordinated      Classification = "coordinated"
	ClassSophisticated    Classification = "sophisticated"
	ClassCrossChainReview Classification = "cross_chain_review"
	ClassFreshLargeFunds  Classification = "fresh_large_funding"
	ClassSingleBet        Classification = "single_bet"
	ClassFundsMembers     Classification = "funds_members"
	ClassSomeLinked       Classification = "some_linked"
	ClassRetailDiverse    Classification = "retail_diversified"
	ClassRetail           Classification = "retail"
	ClassInconclusive     Classification = "inconclusive"
)
