package netinfo

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Resolver は接続元アドレスを解決する。
type Resolver struct {
	arpPath string
}

// NewResolver は新しいResolverを生成する。
func NewResolver(arpPath string) *Resolver {
	return &Resolver{arpPath: arpPath}
}

// LookupMAC は近隣テーブルからIPに対応するMACを返す。
// 見つからない場合は空文字列を返す。
func (r *Resolver) LookupMAC(ip string) string {
	normalized, err := model.NormalizeIP(ip)
	if err != nil {
		return ""
	}
	f, err := os.Open(r.arpPath)
	if err != nil {
		slog.Debug("arp table unavailable", "path", r.arpPath, logging.WithError(err))
		return ""
	}
	defer f.Close()

	table, err := ParseARP(f)
	if err != nil {
		slog.Warn("arp table parse failed",
			logging.WithEventID("ARP_READ_ERR"),
			"path", r.arpPath,
			logging.WithError(err),
		)
		return ""
	}
	return table[normalized]
}

// Resolve はリクエストの接続元アドレスを返す。
// IPはTRUSTED_PROXIESを考慮したgin.ClientIP、MACは近隣テーブルから導出する。
func (r *Resolver) Resolve(c *gin.Context) model.ClientAddress {
	ip, err := model.NormalizeIP(c.ClientIP())
	if err != nil {
		return model.ClientAddress{}
	}
	return model.ClientAddress{IP: ip, MAC: r.LookupMAC(ip)}
}
