package model

import "fmt"

// UserTimezone 用户时区，数据库与备份文件中以整数编码存储
type UserTimezone int

const TimezoneUTC UserTimezone = 1

// timezoneNames 时区编码到 IANA 名称的映射表
var timezoneNames = map[UserTimezone]string{
	1: "UTC",

	// Americas
	2:  "America/New_York",
	3:  "America/Chicago",
	4:  "America/Denver",
	5:  "America/Los_Angeles",
	6:  "America/Anchorage",
	7:  "America/Honolulu",
	8:  "America/Toronto",
	9:  "America/Vancouver",
	10: "America/Mexico_City",
	11: "America/Sao_Paulo",
	12: "America/Buenos_Aires",
	13: "America/Lima",
	14: "America/Bogota",
	15: "America/Caracas",
	16: "America/Santiago",

	// Europe
	17: "Europe/London",
	18: "Europe/Paris",
	19: "Europe/Berlin",
	20: "Europe/Madrid",
	21: "Europe/Rome",
	22: "Europe/Amsterdam",
	23: "Europe/Zurich",
	24: "Europe/Vienna",
	25: "Europe/Stockholm",
	26: "Europe/Oslo",
	27: "Europe/Copenhagen",
	28: "Europe/Helsinki",
	29: "Europe/Moscow",
	30: "Europe/Warsaw",
	31: "Europe/Prague",
	32: "Europe/Budapest",
	33: "Europe/Bucharest",
	34: "Europe/Athens",
	35: "Europe/Istanbul",
	36: "Europe/Kiev",

	// Asia
	37: "Asia/Tokyo",
	38: "Asia/Seoul",
	39: "Asia/Shanghai",
	40: "Asia/Beijing",
	41: "Asia/Hong_Kong",
	42: "Asia/Taipei",
	43: "Asia/Singapore",
	44: "Asia/Kuala_Lumpur",
	45: "Asia/Jakarta",
	46: "Asia/Bangkok",
	47: "Asia/Ho_Chi_Minh",
	48: "Asia/Manila",
	49: "Asia/Dhaka",
	50: "Asia/Kolkata",
	51: "Asia/Karachi",
	52: "Asia/Tashkent",
	53: "Asia/Dubai",
	54: "Asia/Tehran",
	55: "Asia/Riyadh",
	56: "Asia/Kuwait",
	57: "Asia/Qatar",
	58: "Asia/Muscat",
	59: "Asia/Baku",
	60: "Asia/Yerevan",
	61: "Asia/Tbilisi",
	62: "Asia/Almaty",
	63: "Asia/Novosibirsk",
	64: "Asia/Krasnoyarsk",
	65: "Asia/Irkutsk",
	66: "Asia/Yakutsk",
	67: "Asia/Vladivostok",
	68: "Asia/Magadan",

	// Africa
	69: "Africa/Cairo",
	70: "Africa/Johannesburg",
	71: "Africa/Nairobi",
	72: "Africa/Lagos",
	73: "Africa/Casablanca",
	74: "Africa/Algiers",
	75: "Africa/Tunis",
	76: "Africa/Addis_Ababa",
	77: "Africa/Dar_es_Salaam",
	78: "Africa/Accra",
	79: "Africa/Abidjan",

	// Australia & Oceania
	80: "Australia/Sydney",
	81: "Australia/Melbourne",
	82: "Australia/Brisbane",
	83: "Australia/Perth",
	84: "Australia/Adelaide",
	85: "Australia/Darwin",
	86: "Pacific/Auckland",
	87: "Pacific/Fiji",
	88: "Pacific/Tahiti",
	89: "Pacific/Honolulu",
	90: "Pacific/Guam",

	// Additional zones
	91: "Atlantic/Azores",
	92: "Atlantic/Cape_Verde",
	93: "Indian/Maldives",
	94: "Indian/Mauritius",
}

// ParseUserTimezone 校验整数编码，未知编码返回错误而不是静默回退
func ParseUserTimezone(code int) (UserTimezone, error) {
	tz := UserTimezone(code)
	if _, ok := timezoneNames[tz]; !ok {
		return 0, fmt.Errorf("未知的时区编码: %d", code)
	}
	return tz, nil
}

// Name 返回时区的 IANA 名称，未知编码返回空字符串
func (tz UserTimezone) Name() string {
	return timezoneNames[tz]
}
