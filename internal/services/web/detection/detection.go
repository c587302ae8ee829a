// Package detection counts classified corn-plant detections for the live
// session and turns them into persisted session summaries.
package detection

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Classes counted by the service. Other classes are logged but not counted.
const (
	ClassInfested    = "infested corn plant"
	ClassNotInfested = "not infested corn plant"
)

// boxLen is the number of box values: x, y, width and height.
const boxLen = 4

// Detection is one classified bounding box reported by the detector.
// Box holds x, y, width and height.
type Detection struct {
	Class      string    `json:"class"`
	Confidence float64   `json:"confidence"`
	Box        []float64 `json:"box"`
}

// ObjectID identifies the detected object so repeated reports of the same
// box are counted once. Surrounding whitespace in the class is ignored.
func (d Detection) ObjectID() string {
	parts := make([]string, 0, 1+len(d.Box))
	parts = append(parts, strings.TrimSpace(d.Class))
	for _, v := range d.Box {
		parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
	}
	sum := md5.Sum([]byte(strings.Join(parts, "_")))
	return hex.EncodeToString(sum[:])
}

func (d Detection) validate() string {
	if strings.TrimSpace(d.Class) == "" {
		return "class is required"
	}
	if math.IsNaN(d.Confidence) || d.Confidence < 0 || d.Confidence > 1 {
		return "confidence must be between 0 and 1"
	}
	if len(d.Box) != boxLen {
		return "box must hold exactly 4 values"
	}
	for _, v := range d.Box {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "box coordinates must be finite"
		}
	}
	return ""
}

// Counts holds the live per-class counters.
type Counts struct {
	Infested    int `json:"infested_count"`
	NotInfested int `json:"not_infested_count"`
}

// Total returns the number of counted detections.
func (c Counts) Total() int {
	return c.Infested + c.NotInfested
}

// Percentages returns each class share of the total, or zeros when nothing
// has been counted.
func (c Counts) Percentages() Percentages {
	total := c.Total()
	if total == 0 {
		return Percentages{}
	}
	return Percentages{
		Infested:    float64(c.Infested) / float64(total) * 100,
		NotInfested: float64(c.NotInfested) / float64(total) * 100,
	}
}

// Percentages is the class split of a set of counts.
type Percentages struct {
	Infested    float64 `json:"infested_percentage"`
	NotInfested float64 `json:"not_infested_percentage"`
}
