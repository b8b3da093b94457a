package identity

import "github.com/oyaguma3/captive-portal-access/pkg/model"

// Method は認証方式。
type Method string

const (
	MethodLDAP  Method = "ldap"
	MethodOAuth Method = "oauth"
	MethodOTP   Method = "otp"
)

// Valid は既知の認証方式かどうかを返す。
func (m Method) Valid() bool {
	switch m {
	case MethodLDAP, MethodOAuth, MethodOTP:
		return true
	}
	return false
}

// Credential はIdentity Providerに渡すログイン情報。
type Credential struct {
	Method   Method `json:"method"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Code     string `json:"code,omitempty"` // OAuth認可コードまたはOTP
}

// principalJSON はIdentity Providerのレスポンス。
type principalJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func (p *principalJSON) toPrincipal() *model.Principal {
	return model.NewPrincipal(p.ID, p.Name, p.Email, p.Role, p.Department)
}

// sessionHash はセッションのValkey HASH表現。
//
// Valkey key: psess:{token}
type sessionHash struct {
	ID         string `redis:"id"`
	Name       string `redis:"name"`
	Email      string `redis:"email"`
	Role       string `redis:"role"`
	Department string `redis:"department"`
	CreatedAt  int64  `redis:"created_at"`
}
