// Package netinfo は接続元のクライアントアドレス（IP, MAC）を導出する。
package netinfo

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// arpFlagComplete は解決済みエントリのフラグ（ATF_COM）
const arpFlagComplete = 0x2

// ParseARP は/proc/net/arp形式の近隣テーブルを読み取り、IP→MACの対応を返す。
// 未解決エントリおよび不正なMACは除外する。MACは正規化済み。
func ParseARP(r io.Reader) (map[string]string, error) {
	table := make(map[string]string)
	sc := bufio.NewScanner(r)

	first := true
	for sc.Scan() {
		if first {
			// ヘッダ行
			first = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		var flags int
		if _, err := fmt.Sscanf(fields[2], "0x%x", &flags); err != nil || flags&arpFlagComplete == 0 {
			continue
		}
		mac, err := model.NormalizeMAC(fields[3])
		if err != nil || mac == "00:00:00:00:00:00" {
			continue
		}
		ip, err := model.NormalizeIP(fields[0])
		if err != nil {
			continue
		}
		table[ip] = mac
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read arp table: %w", err)
	}
	return table, nil
}
