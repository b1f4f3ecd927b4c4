package analysis

import (
	"math"

	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
)

// ValidateScore checks an analyzer output against its contract: a known
// domain and a finite score inside [MinDomainScore, MaxDomainScore].  A
// violating score is replaced with the fallback and reported as an error so
// the pipeline can log and count it; the corrected DomainScore is always
// usable.
func ValidateScore(ds DomainScore, log logging.Logger) (DomainScore, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	if _, known := DomainWeights[ds.Domain]; !known {
		log.Error("analyzer produced unknown domain", logging.String("domain", ds.Domain))
		return ds, apperrors.New(apperrors.ErrCodeAnalyzerContract, "unknown analysis domain").
			WithDetail(ds.Domain)
	}

	s := ds.Score
	if math.IsNaN(s) || math.IsInf(s, 0) || s < MinDomainScore || s > MaxDomainScore {
		log.Error("analyzer score outside contract bounds, substituting fallback",
			logging.String("domain", ds.Domain),
			logging.Float64("score", s),
			logging.Float64("fallback", FallbackDomainScore))
		corrected := ds
		corrected.Score = FallbackDomainScore
		return corrected, apperrors.New(apperrors.ErrCodeAnalyzerContract, "domain score outside contract bounds").
			WithDetail(ds.Domain)
	}

	return ds, nil
}
