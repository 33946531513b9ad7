package ledger

// Gas is a deterministic cost metric reported in receipts. It does not
// meter execution; it is a fixed schedule per call kind.
const (
	GasBase   uint64 = 21_000
	GasRevert uint64 = 2_300
	GasCreate uint64 = 88_000
	GasClaim  uint64 = 34_000
	GasCancel uint64 = 29_000
	GasFund   uint64 = 5_000
)

func gasFor(kind Kind, success bool) uint64 {
	if !success {
		return GasBase + GasRevert
	}
	switch kind {
	case KindCreate:
		return GasBase + GasCreate
	case KindClaim:
		return GasBase + GasClaim
	case KindCancel:
		return GasBase + GasCancel
	case KindFund:
		return GasBase + GasFund
	}
	return GasBase
}
