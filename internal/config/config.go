package config

import (
	"os"
	"strings"
)

// Config holds application configuration loaded from environment variables.
// It is read once at startup and passed into component constructors; nothing
// reads the environment after that.
type Config struct {
	Addr   string // SUITEBRIDGE_ADDR, default ":8080"
	DBPath string // SUITEBRIDGE_DB, default "suitebridge.db"

	HubSpot  HubSpot
	NetSuite NetSuite

	// ClosedWonStage is the deal stage identifier that triggers
	// quote-to-sales-order conversion.
	ClosedWonStage string // SUITEBRIDGE_CLOSED_WON_STAGE, default "closedwon"

	// ItemIDProperties are the catalog-item properties tried in order when
	// resolving a line item to a NetSuite internal item id. The first
	// non-empty value wins.
	ItemIDProperties []string // SUITEBRIDGE_ITEM_ID_PROPERTIES, comma-separated
}

// HubSpot holds the upstream CRM API settings.
type HubSpot struct {
	BaseURL string // SUITEBRIDGE_HUBSPOT_BASE_URL, default "https://api.hubapi.com"
	Token   string // SUITEBRIDGE_HUBSPOT_TOKEN, required at resolve time

	// AppSecret enables HubSpot v3 webhook signature verification when set.
	AppSecret string // SUITEBRIDGE_HUBSPOT_APP_SECRET, optional
}

// NetSuite holds the downstream RESTlet credentials and endpoint URLs. An
// unset endpoint URL disables the corresponding action rather than failing it.
type NetSuite struct {
	Account        string // SUITEBRIDGE_NETSUITE_ACCOUNT
	ConsumerKey    string // SUITEBRIDGE_NETSUITE_CONSUMER_KEY
	ConsumerSecret string // SUITEBRIDGE_NETSUITE_CONSUMER_SECRET
	TokenID        string // SUITEBRIDGE_NETSUITE_TOKEN_ID
	TokenSecret    string // SUITEBRIDGE_NETSUITE_TOKEN_SECRET

	CustomerURL string // SUITEBRIDGE_NETSUITE_CUSTOMER_URL
	ItemURL     string // SUITEBRIDGE_NETSUITE_ITEM_URL
	OrderURL    string // SUITEBRIDGE_NETSUITE_ORDER_URL

	// RoutingCookie is sent verbatim as a Cookie header on every RESTlet
	// call. Some NetSuite deployments pin requests to an app server this way.
	RoutingCookie string // SUITEBRIDGE_NETSUITE_COOKIE, optional
}

// defaultItemIDProperties is the fallback chain used when no override is
// configured. The portal schema varied across iterations, so the candidates
// cover the known spellings plus SKU as a last resort.
var defaultItemIDProperties = []string{"netsuite_internal_id", "ns_internal_id", "hs_sku"}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Addr:   envOr("SUITEBRIDGE_ADDR", ":8080"),
		DBPath: envOr("SUITEBRIDGE_DB", "suitebridge.db"),
		HubSpot: HubSpot{
			BaseURL:   envOr("SUITEBRIDGE_HUBSPOT_BASE_URL", "https://api.hubapi.com"),
			Token:     os.Getenv("SUITEBRIDGE_HUBSPOT_TOKEN"),
			AppSecret: os.Getenv("SUITEBRIDGE_HUBSPOT_APP_SECRET"),
		},
		NetSuite: NetSuite{
			Account:        os.Getenv("SUITEBRIDGE_NETSUITE_ACCOUNT"),
			ConsumerKey:    os.Getenv("SUITEBRIDGE_NETSUITE_CONSUMER_KEY"),
			ConsumerSecret: os.Getenv("SUITEBRIDGE_NETSUITE_CONSUMER_SECRET"),
			TokenID:        os.Getenv("SUITEBRIDGE_NETSUITE_TOKEN_ID"),
			TokenSecret:    os.Getenv("SUITEBRIDGE_NETSUITE_TOKEN_SECRET"),
			CustomerURL:    os.Getenv("SUITEBRIDGE_NETSUITE_CUSTOMER_URL"),
			ItemURL:        os.Getenv("SUITEBRIDGE_NETSUITE_ITEM_URL"),
			OrderURL:       os.Getenv("SUITEBRIDGE_NETSUITE_ORDER_URL"),
			RoutingCookie:  os.Getenv("SUITEBRIDGE_NETSUITE_COOKIE"),
		},
		ClosedWonStage:   envOr("SUITEBRIDGE_CLOSED_WON_STAGE", "closedwon"),
		ItemIDProperties: envList("SUITEBRIDGE_ITEM_ID_PROPERTIES", defaultItemIDProperties),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
