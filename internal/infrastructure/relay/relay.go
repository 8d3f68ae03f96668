package relay

import "net/url"

// Relay rewrites a target URL into a request one of the public CORS proxy
// services will forward. Order in DefaultRelays is the fallback priority.
type Relay interface {
	Name() string
	WrapURL(target string) string
}

type AllOrigins struct{}

func (AllOrigins) Name() string { return "allorigins" }
func (AllOrigins) WrapURL(target string) string {
	return "https://api.allorigins.win/raw?url=" + url.QueryEscape(target)
}

type CorsProxy struct{}

func (CorsProxy) Name() string { return "corsproxy" }
func (CorsProxy) WrapURL(target string) string {
	return "https://corsproxy.io/?" + url.QueryEscape(target)
}

type CodeTabs struct{}

func (CodeTabs) Name() string { return "codetabs" }
func (CodeTabs) WrapURL(target string) string {
	return "https://api.codetabs.com/v1/proxy?quest=" + url.QueryEscape(target)
}

func DefaultRelays() []Relay {
	return []Relay{AllOrigins{}, CorsProxy{}, CodeTabs{}}
}
