package consts

const (
	ApplicationName    = "Floresya Image Server"
	ApplicationVersion = "1.2.0"
)
