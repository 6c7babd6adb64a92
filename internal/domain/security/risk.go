package security

import "time"

// MaxRiskScore caps the computed risk of any single event
const MaxRiskScore = 100

// Context adjustments added on top of the event base weight
const (
	riskNewIP       = 15
	riskUnseenAgent = 10
	riskOffHours    = 5
)

// Off-hours window in UTC: midnight up to (excluding) this hour
const offHoursEndUTC = 6

// riskBaseWeights holds the fixed base weight per event type.
// Types not listed contribute no base risk.
var riskBaseWeights = map[EventType]int{
	EventLoginFailed:        10,
	EventLoginBlocked:       25,
	EventAccountLocked:      30,
	EventPasswordChanged:    15,
	EventTokenRevoked:       10,
	EventCaptchaFailed:      20,
	EventSuspiciousActivity: 40,
}

// RiskInput carries the signals used to score a security event
type RiskInput struct {
	EventType EventType
	IP        string
	// LastKnownIP is the IP recorded on the user's last successful login;
	// empty when the user has never logged in.
	LastKnownIP string
	UserAgent   string
	// KnownUserAgents are the user agents of the user's active sessions
	KnownUserAgents []string
	// At is the event time; zero means now
	At time.Time
}

// RiskScore computes the risk of a security event from fixed weights:
// a base weight per event type, plus adjustments for an unfamiliar IP,
// an unfamiliar user agent, and off-hours activity. The result is capped
// at MaxRiskScore.
func RiskScore(input RiskInput) int {
	score := riskBaseWeights[input.EventType]

	if input.IP != "" && input.LastKnownIP != "" && input.IP != input.LastKnownIP {
		score += riskNewIP
	}

	if input.UserAgent != "" && len(input.KnownUserAgents) > 0 && !containsString(input.KnownUserAgents, input.UserAgent) {
		score += riskUnseenAgent
	}

	at := input.At
	if at.IsZero() {
		at = time.Now()
	}
	if at.UTC().Hour() < offHoursEndUTC {
		score += riskOffHours
	}

	if score > MaxRiskScore {
		score = MaxRiskScore
	}
	return score
}

// Suspicious-activity thresholds. A user trips detection when any of the
// three counts reaches its threshold within its window.
const (
	SuspiciousFailedLoginThreshold = 5
	SuspiciousFailedLoginWindow    = 15 * time.Minute

	SuspiciousDistinctIPThreshold = 3
	SuspiciousDistinctIPWindow    = time.Hour

	SuspiciousWarningEventThreshold = 10
	SuspiciousWarningEventWindow    = 24 * time.Hour
)

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
