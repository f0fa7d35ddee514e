package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Link is a HAL link object.
type Link struct {
	Href string `json:"href"`
}

// Links maps a relation name to its link.
type Links map[string]Link

type resourceKind int

const (
	saleItem resourceKind = iota
	saleDetail
	saleCollection
	customerCollection
	saleStats
	saleWithDetails
	completeStats
	topSellers
)

const ventasPath = "/ventas"

// buildLinks returns the fixed link set of a resource. base is this
// service's externally seen root, gateway the API gateway root, and id the
// sale or customer identifier when the resource has one.
func buildLinks(base, gateway string, kind resourceKind, id uint64) Links {
	salePath := ventasPath + "/" + strconv.FormatUint(id, 10)

	var self string
	links := Links{}
	switch kind {
	case saleItem:
		self = salePath
		links["ventas"] = Link{Href: base + ventasPath}
	case saleDetail:
		self = salePath
		links["ventas"] = Link{Href: base + ventasPath}
		links["delete"] = Link{Href: base + salePath}
	case saleCollection:
		self = ventasPath
	case customerCollection:
		self = ventasPath + "/cliente/" + strconv.FormatUint(id, 10)
		links["ventas"] = Link{Href: base + ventasPath}
	case saleStats:
		self = ventasPath + "/stats"
		links["ventas"] = Link{Href: base + ventasPath}
	case saleWithDetails:
		self = salePath + "/con-detalles"
		links["venta"] = Link{Href: base + salePath}
		links["ventas"] = Link{Href: base + ventasPath}
	case completeStats:
		self = ventasPath + "/stats/completas"
		links["stats-ventas"] = Link{Href: base + ventasPath + "/stats"}
		links["ventas"] = Link{Href: base + ventasPath}
	case topSellers:
		self = ventasPath + "/productos/mas-vendidos"
		links["ventas"] = Link{Href: base + ventasPath}
	}

	links["self"] = Link{Href: base + self}
	links["gateway"] = Link{Href: gateway + self}
	return links
}

// requestBaseURL is the scheme and host the caller used to reach us.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	switch p := strings.ToLower(firstHeaderValue(r, "X-Forwarded-Proto")); p {
	case "http", "https":
		scheme = p
	}

	host := r.Host
	if h := firstHeaderValue(r, "X-Forwarded-Host"); validHost(h) {
		host = h
	}
	return scheme + "://" + host
}

// validHost accepts a bare host[:port]; anything carrying a path, userinfo
// or whitespace is ignored.
func validHost(h string) bool {
	if h == "" {
		return false
	}
	u, err := url.Parse("http://" + h)
	return err == nil && u.Host == h && u.User == nil && !strings.ContainsAny(h, " \t/\\?#@")
}

func firstHeaderValue(r *http.Request, name string) string {
	v, _, _ := strings.Cut(r.Header.Get(name), ",")
	return strings.TrimSpace(v)
}
