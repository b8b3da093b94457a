package model

// Principal は認証済みユーザーを表す。
// Identity Provider が発行し、以降は値として参照されるのみで変更されない。
type Principal struct {
	ID         string `json:"id"`                   // ユーザー識別子
	Name       string `json:"name"`                 // 表示名
	Email      string `json:"email"`                // メールアドレス
	Role       string `json:"role,omitempty"`       // ロール（admin等）
	Department string `json:"department,omitempty"` // 所属部署
}

// NewPrincipal は新しいPrincipalを生成する。
func NewPrincipal(id, name, email, role, department string) *Principal {
	return &Principal{
		ID:         id,
		Name:       name,
		Email:      email,
		Role:       role,
		Department: department,
	}
}

// HasRole はPrincipalのロールが指定ロールのいずれかに一致するかを返す。
func (p *Principal) HasRole(roles []string) bool {
	if p == nil || p.Role == "" {
		return false
	}
	for _, r := range roles {
		if r == p.Role {
			return true
		}
	}
	return false
}
