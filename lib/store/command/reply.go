package command

import (
	"fmt"
	"strconv"
	"strings"
)

// ReplyKind identifies which field of a Reply carries the result.
type ReplyKind uint8

const (
	ReplyNil    ReplyKind = iota // Absent value
	ReplyInt                     // Integer, also used for booleans (0/1)
	ReplyBulk                    // Single binary value
	ReplyArray                   // List of binary values, nil elements are absent
	ReplyStatus                  // Simple status string such as "OK" or "PONG"
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyNil:
		return "nil"
	case ReplyInt:
		return "int"
	case ReplyBulk:
		return "bulk"
	case ReplyArray:
		return "array"
	case ReplyStatus:
		return "status"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Reply is the result of a dispatched command.
type Reply struct {
	Kind   ReplyKind
	Int    int64
	Bulk   []byte
	Array  [][]byte
	Status string
}

func nilReply() Reply {
	return Reply{Kind: ReplyNil}
}

func intReply(n int64) Reply {
	return Reply{Kind: ReplyInt, Int: n}
}

func boolReply(b bool) Reply {
	if b {
		return intReply(1)
	}
	return intReply(0)
}

func bulkReply(value []byte) Reply {
	return Reply{Kind: ReplyBulk, Bulk: value}
}

// optionalReply returns a bulk reply if ok, otherwise a nil reply
func optionalReply(value []byte, ok bool) Reply {
	if !ok {
		return nilReply()
	}
	return bulkReply(value)
}

func arrayReply(values [][]byte) Reply {
	if values == nil {
		values = [][]byte{}
	}
	return Reply{Kind: ReplyArray, Array: values}
}

func statusReply(status string) Reply {
	return Reply{Kind: ReplyStatus, Status: status}
}

func okReply() Reply {
	return statusReply("OK")
}

// String formats the reply the way redis-cli prints it
func (r Reply) String() string {
	switch r.Kind {
	case ReplyInt:
		return fmt.Sprintf("(integer) %d", r.Int)
	case ReplyBulk:
		return strconv.Quote(string(r.Bulk))
	case ReplyArray:
		if len(r.Array) == 0 {
			return "(empty array)"
		}
		var sb strings.Builder
		for i, value := range r.Array {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if value == nil {
				fmt.Fprintf(&sb, "%d) (nil)", i+1)
			} else {
				fmt.Fprintf(&sb, "%d) %s", i+1, strconv.Quote(string(value)))
			}
		}
		return sb.String()
	case ReplyStatus:
		return r.Status
	default:
		return "(nil)"
	}
}
