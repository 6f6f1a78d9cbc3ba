package httpx

var (
	ErrAlreadySent    = errorString("httpx: response already sent")
	ErrResponseClosed = errorString("httpx: response closed")
	ErrUnknownVerb    = errorString("httpx: unknown verb")
	ErrMissingPath    = errorString("httpx: route needs a path or matcher")
	ErrDuplicatePath  = errorString("httpx: route takes a single path or matcher")
	ErrNoHandlers     = errorString("httpx: route needs at least one handler")
	ErrBadArgument    = errorString("httpx: unsupported route argument")
	ErrHandlerPanic   = errorString("httpx: handler panicked")
)

type errorString string

func (e errorString) Error() string { return string(e) }
