package utils

import "github.com/rountana/page1/logger"

// EnrichmentStatus tells apart "we deliberately did nothing" from "we tried
// and failed" for the optional data sources (place photos, reviews, mail,
// chat). Handlers keep serving either way; this exists so the outcome is
// logged uniformly instead of vanishing.
type EnrichmentStatus string

const (
	EnrichmentOK      EnrichmentStatus = "ok"
	EnrichmentSkipped EnrichmentStatus = "skipped"
	EnrichmentError   EnrichmentStatus = "error"
)

// Enrichment is the outcome of a best-effort side call.
type Enrichment struct {
	Source string
	Status EnrichmentStatus
	Reason string
}

// EnrichmentDone builds and logs an enrichment outcome.
func EnrichmentDone(source string, status EnrichmentStatus, reason string) Enrichment {
	e := Enrichment{Source: source, Status: status, Reason: reason}
	switch status {
	case EnrichmentOK:
		logger.InfoLogger.Infof("enrichment %s: ok", source)
	case EnrichmentSkipped:
		logger.InfoLogger.Infof("enrichment %s: skipped (%s)", source, reason)
	case EnrichmentError:
		logger.WarnLogger.Warnf("enrichment %s: failed (%s)", source, reason)
	}
	return e
}
