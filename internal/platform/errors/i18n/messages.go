package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
const (
	CodeUnknown            = "UNKNOWN"
	CodeFeedInvalidPayload = "FEED_INVALID_PAYLOAD"
	CodeFeedInvalidImage   = "FEED_INVALID_IMAGE"
	CodeFeedCacheRead      = "FEED_CACHE_READ_FAILED"
	CodeFeedCachePersist   = "FEED_CACHE_PERSIST_FAILED"
	CodeFeedCacheBusy      = "FEED_CACHE_BUSY"
	CodeFeedStoreClosed    = "FEED_STORE_CLOSED"
	CodeCanceled           = "CANCELED"
	CodeDeadlineExceeded   = "DEADLINE_EXCEEDED"
)

var enUSMessages = map[Code]string{
	CodeUnknown:            "An unexpected error occurred.",
	CodeFeedInvalidPayload: "The feed payload is malformed.",
	CodeFeedInvalidImage:   "A feed image is missing its id or url.",
	CodeFeedCacheRead:      "The feed cache could not be read.",
	CodeFeedCachePersist:   "The feed cache could not be saved{{with .operation}} during {{.}}{{end}}.",
	CodeFeedCacheBusy:      "The feed cache is busy. Try again.",
	CodeFeedStoreClosed:    "The feed store is shutting down.",
	CodeCanceled:           "The request was canceled.",
	CodeDeadlineExceeded:   "The request timed out.",
}

var ptBRMessages = map[Code]string{
	CodeUnknown:            "Ocorreu um erro inesperado.",
	CodeFeedInvalidPayload: "O conteúdo do feed está malformado.",
	CodeFeedInvalidImage:   "Uma imagem do feed está sem id ou url.",
	CodeFeedCacheRead:      "Não foi possível ler o cache do feed.",
	CodeFeedCachePersist:   "Não foi possível salvar o cache do feed{{with .operation}} durante {{.}}{{end}}.",
	CodeFeedCacheBusy:      "O cache do feed está ocupado. Tente novamente.",
	CodeFeedStoreClosed:    "O armazenamento do feed está sendo encerrado.",
	CodeCanceled:           "A requisição foi cancelada.",
	CodeDeadlineExceeded:   "A requisição excedeu o tempo limite.",
}
