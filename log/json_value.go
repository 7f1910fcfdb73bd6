package log

import (
	"errors"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/valyala/fastjson"
)

type ErrUnmarshalFail struct {
	JSONValue  string
	Key        string
	Underlying error
}

func NewErrUnmarshalFail(v *fastjson.Value, key string, err error) *ErrUnmarshalFail {
	return &ErrUnmarshalFail{
		JSONValue:  v.String(),
		Key:        key,
		Underlying: err,
	}
}

func (err *ErrUnmarshalFail) Error() string {
	return "Error unmarshalling key " + err.Key + ": " + err.Underlying.Error()
}

func ValueString(value *fastjson.Value, key ...string) string {
	return string(value.GetStringBytes(key...))
}

// ValueBase58 decodes a base58 string field into dst, which must be a
// byte slice of exactly the decoded length.
func ValueBase58(value *fastjson.Value, dst []byte, key ...string) error {
	buf, err := base58.Decode(ValueString(value, key...))
	if err != nil {
		return NewErrUnmarshalFail(value, strings.Join(key, "."), err)
	}

	if len(buf) != len(dst) {
		return NewErrUnmarshalFail(value, strings.Join(key, "."),
			errors.New("invalid base58 bytes length"))
	}

	copy(dst, buf)

	return nil
}

func ValueUint64(value *fastjson.Value, key ...string) (uint64, error) {
	v := value.Get(key...)
	if v == nil {
		return 0, NewErrUnmarshalFail(value, strings.Join(key, "."),
			errors.New("missing"))
	}

	u, err := v.Uint64()
	if err != nil {
		return 0, NewErrUnmarshalFail(value, strings.Join(key, "."),
			errors.New("invalid uint64"))
	}

	return u, nil
}
