package security

// In-memory client registry (replace with DB/config later)
type Client struct {
	ID      string
	Secret  string
	Perms   []string // e.g. {"cart.write","checkout.write"}
	Enabled bool
}

var Clients = map[string]Client{
	"web-storefront": {ID: "web-storefront", Secret: "storefront-secret", Perms: []string{"cart.read", "cart.write", "checkout.write", "orders.read"}, Enabled: true},
	"park-kiosk":     {ID: "park-kiosk", Secret: "kiosk-secret", Perms: []string{"cart.read", "cart.write", "checkout.write"}, Enabled: true},
	"ops-portal":     {ID: "ops-portal", Secret: "ops-secret", Perms: []string{"orders.read"}, Enabled: true},
}
