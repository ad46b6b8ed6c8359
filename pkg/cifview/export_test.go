package cifview

var (
	IdFromFile = idFromFile
	IsCifName  = isCifName
	FailKind   = failKind
)
