// Package routepath stores canonical HTTP paths for web modules.
package routepath

import "strconv"

const (
	Root   = "/"
	Health = "/up"

	StaticPrefix     = "/static/"
	TeamStylesheet   = StaticPrefix + "team.css"
	ImagesPrefix     = "/images/"
	ImageFilePattern = ImagesPrefix + "{file...}"

	TeamPrefix  = "/team/"
	Team        = "/team"
	TeamMembers = "/team/members"

	DetectionsPrefix        = "/detections/"
	Detections              = "/detections"
	DetectionFrames         = "/detections/frames"
	DetectionCounts         = "/detections/counts"
	DetectionPercentages    = "/detections/percentages"
	DetectionReset          = "/detections/reset"
	DetectionLog            = "/detections/log"
	DetectionSummaries      = "/detections/summaries"
	DetectionSummaryPattern = DetectionSummaries + "/{summaryID}"
)

// DetectionSummary returns the path of one persisted summary.
func DetectionSummary(id int64) string {
	return DetectionSummaries + "/" + strconv.FormatInt(id, 10)
}
