package consts

const (
	// ApplicationName 应用名称
	ApplicationName = "Mav CMS Server"

	// ApplicationVersion 后端版本号
	ApplicationVersion = "1.2.0"
)
