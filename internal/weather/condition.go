package weather

// Condition represents a coarse label for a WMO weather code.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionFog     Condition = "fog"
	ConditionDrizzle Condition = "drizzle"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionShowers Condition = "showers"
	ConditionStorm   Condition = "storm"
)

// ConditionFromCode maps Open-Meteo (WMO) weather codes to a Condition.
func ConditionFromCode(code int) Condition {
	switch {
	case code == 0:
		return ConditionClear
	case code >= 1 && code <= 3:
		return ConditionCloudy
	case code == 45 || code == 48:
		return ConditionFog
	case code >= 51 && code <= 57:
		return ConditionDrizzle
	case code >= 61 && code <= 67:
		return ConditionRain
	case code >= 71 && code <= 77:
		return ConditionSnow
	case code >= 80 && code <= 86:
		return ConditionShowers
	case code >= 95 && code <= 99:
		return ConditionStorm
	default:
		return ConditionUnknown
	}
}
