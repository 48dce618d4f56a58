package cache

// NoopCache never stores anything; every lookup is a miss.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (n *NoopCache) Get(_ string) ([]byte, bool, error) { return nil, false, nil }
func (n *NoopCache) Set(_ string, _ []byte) error { return nil }
func (n *NoopCache) Purge() (int, error) { return 0, nil }
func (n *NoopCache) Close() error { return nil }
