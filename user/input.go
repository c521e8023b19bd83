package user

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/kbukum/userauth/util"
)

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name     string `json:"name" form:"name" validate:"notblank"`
	Surname  string `json:"surname" form:"surname" validate:"notblank"`
	Nickname string `json:"nickname" form:"nickname" validate:"notblank"`
	Email    string `json:"email" form:"email" validate:"notblank"`
	Password string `json:"password" form:"password" validate:"notblank"`
}

func (in *RegisterInput) normalize() {
	in.Name = util.SanitizeString(in.Name)
	in.Surname = util.SanitizeString(in.Surname)
	in.Nickname = util.SanitizeString(in.Nickname)
	in.Email = util.NormalizeEmail(in.Email)
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"notblank"`
	Password string `json:"password" form:"password" validate:"notblank"`
	// GetToken asks for the token alone, without the account.
	GetToken Flag `json:"gettoken" form:"gettoken"`
}

func (in *LoginInput) normalize() {
	in.Email = util.NormalizeEmail(in.Email)
}

// UpdateInput is the body of a profile update. Absent fields are left
// unchanged; any other field in the body is ignored.
type UpdateInput struct {
	Name     *string `json:"name" form:"name"`
	Surname  *string `json:"surname" form:"surname"`
	Nickname *string `json:"nickname" form:"nickname"`
}

// profile converts the input to a Profile. Blank values count as absent.
func (in UpdateInput) profile() Profile {
	return Profile{
		Name:     util.SanitizeOptional(in.Name),
		Surname:  util.SanitizeOptional(in.Surname),
		Nickname: util.SanitizeOptional(in.Nickname),
	}
}

// Flag is a boolean that also accepts the string forms clients send, such
// as "true" or "1". Unrecognized strings are false.
type Flag bool

// UnmarshalJSON accepts a JSON boolean, number or string.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = false
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flag(parseFlag(s))
		return nil
	default:
		*f = Flag(parseFlag(string(data)))
		return nil
	}
}

// UnmarshalParam implements gin's form binding hook.
func (f *Flag) UnmarshalParam(param string) error {
	*f = Flag(parseFlag(param))
	return nil
}

func parseFlag(s string) bool {
	v, err := strconv.ParseBool(util.SanitizeString(s))
	return err == nil && v
}
