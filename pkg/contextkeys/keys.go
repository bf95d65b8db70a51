package contextkeys

type contextKey string

const (
	SubjectKey   contextKey = "Subject"
	RequestIDKey contextKey = "RequestID"
	LoggerKey    contextKey = "Logger"
)
