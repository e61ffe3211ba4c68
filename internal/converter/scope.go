package converter

// EntityScope 用于跟踪未闭合的实体
type EntityScope struct {
	EntityType  string
	StartOffset int
	URL         string
	Language    string
}
