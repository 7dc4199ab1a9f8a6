// Package render maps conversation directives to transport-neutral replies
// and owns the callback-token codec.
package render

import (
	"strconv"
	"strings"

	"github.com/haasonsaas/notabot/internal/conversation"
)

// Callback-token wire format, kept compatible with the original deployment's
// button data.
const (
	tokenViewPrefix   = "view_"
	tokenDeletePrefix = "del_"
	tokenEditPrefix   = "edit_"
	tokenBack         = "back_to_list"
)

// EncodeToken builds the opaque callback token for an action and target id.
// EncodeToken and DecodeToken round-trip exactly for every valid action and
// every representable id.
func EncodeToken(action conversation.Action, targetID int64) string {
	switch action {
	case conversation.ActionView:
		return tokenViewPrefix + strconv.FormatInt(targetID, 10)
	case conversation.ActionDelete:
		return tokenDeletePrefix + strconv.FormatInt(targetID, 10)
	case conversation.ActionEdit:
		return tokenEditPrefix + strconv.FormatInt(targetID, 10)
	case conversation.ActionBack:
		return tokenBack
	default:
		return ""
	}
}

// DecodeToken parses a callback token back into its action and target id.
// Unrecognized or malformed tokens yield ActionUnknown rather than an
// error; the dispatcher routes that to a safe state.
func DecodeToken(token string) (conversation.Action, int64) {
	if token == tokenBack {
		return conversation.ActionBack, 0
	}

	for prefix, action := range map[string]conversation.Action{
		tokenViewPrefix:   conversation.ActionView,
		tokenDeletePrefix: conversation.ActionDelete,
		tokenEditPrefix:   conversation.ActionEdit,
	} {
		rest, ok := strings.CutPrefix(token, prefix)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return conversation.ActionUnknown, 0
		}
		return action, id
	}

	return conversation.ActionUnknown, 0
}
