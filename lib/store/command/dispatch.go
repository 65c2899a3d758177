package command

import (
	"fmt"
	"github.com/ValentinKolb/sqKV/lib/db"
	"github.com/ValentinKolb/sqKV/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"strconv"
	"strings"
)

var Logger = logger.GetLogger("command")

var (
	unsupportedCommands = metrics.NewCounter("sqkv_unsupported_commands_total")
	commandErrors       = metrics.NewCounter("sqkv_command_errors_total")
)

// Dispatch executes the command name with the raw arguments args on s.
// Unknown commands are logged and counted and return a RetCUnsupportedOperation error.
func Dispatch(s store.IStore, name string, args ...[]byte) (Reply, error) {
	ct, ok := ParseCommandType(name)
	if !ok {
		Logger.Warningf("unsupported command %q with %d arguments", name, len(args))
		unsupportedCommands.Inc()
		return nilReply(), store.NewError(store.RetCUnsupportedOperation,
			fmt.Sprintf("unsupported command '%s'", name))
	}

	metrics.GetOrCreateCounter(fmt.Sprintf(`sqkv_commands_total{command=%q}`, strings.ToLower(ct.String()))).Inc()

	if !ct.checkArity(len(args)) {
		commandErrors.Inc()
		return nilReply(), store.NewError(store.RetCInvalidOperation,
			fmt.Sprintf("wrong number of arguments for '%s' command", strings.ToLower(ct.String())))
	}

	reply, err := execute(s, ct, args)
	if err != nil {
		commandErrors.Inc()
		Logger.Debugf("command %s failed: %v", ct, err)
		return nilReply(), err
	}
	return reply, nil
}

// --------------------------------------------------------------------------
// Argument Helper
// --------------------------------------------------------------------------

func parseInt(arg []byte) (int64, error) {
	n, err := strconv.ParseInt(string(arg), 10, 64)
	if err != nil {
		return 0, store.NewError(store.RetCInvalidOperation, "value is not an integer or out of range")
	}
	return n, nil
}

func parseBit(arg []byte) (int, error) {
	n, err := parseInt(arg)
	if err != nil || (n != 0 && n != 1) {
		return 0, store.NewError(store.RetCInvalidOperation, "bit is not an integer or out of range")
	}
	return int(n), nil
}

func keys(args [][]byte) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = string(arg)
	}
	return out
}

func pairs(args [][]byte) []store.KV {
	out := make([]store.KV, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		out = append(out, store.KV{Key: string(args[i]), Value: args[i+1]})
	}
	return out
}

// --------------------------------------------------------------------------
// Execution
// --------------------------------------------------------------------------

// execute runs a command whose arity has already been checked
func execute(s store.IStore, ct CommandType, args [][]byte) (Reply, error) {
	switch ct {

	// String commands

	case CommandTGet:
		value, ok, err := s.Get(string(args[0]))
		return optionalReply(value, ok), err

	case CommandTSet:
		if err := s.Set(string(args[0]), args[1]); err != nil {
			return nilReply(), err
		}
		return okReply(), nil

	case CommandTSetNX:
		written, err := s.SetNX(string(args[0]), args[1])
		return boolReply(written), err

	case CommandTGetSet:
		previous, ok, err := s.GetSet(string(args[0]), args[1])
		return optionalReply(previous, ok), err

	case CommandTAppend:
		length, err := s.Append(string(args[0]), args[1])
		return intReply(length), err

	case CommandTStrLen:
		length, err := s.StrLen(string(args[0]))
		return intReply(length), err

	case CommandTGetRange:
		start, err := parseInt(args[1])
		if err != nil {
			return nilReply(), err
		}
		end, err := parseInt(args[2])
		if err != nil {
			return nilReply(), err
		}
		value, err := s.GetRange(string(args[0]), start, end)
		return bulkReply(value), err

	case CommandTSetRange:
		offset, err := parseInt(args[1])
		if err != nil {
			return nilReply(), err
		}
		length, err := s.SetRange(string(args[0]), offset, args[2])
		return intReply(length), err

	case CommandTIncr:
		n, err := s.Incr(string(args[0]))
		return intReply(n), err

	case CommandTDecr:
		n, err := s.Decr(string(args[0]))
		return intReply(n), err

	case CommandTIncrBy, CommandTDecrBy:
		amount, err := parseInt(args[1])
		if err != nil {
			return nilReply(), err
		}
		var n int64
		if ct == CommandTIncrBy {
			n, err = s.IncrBy(string(args[0]), amount)
		} else {
			n, err = s.DecrBy(string(args[0]), amount)
		}
		return intReply(n), err

	case CommandTMGet:
		values, err := s.MGet(keys(args)...)
		return arrayReply(values), err

	case CommandTMSet:
		if err := s.MSet(pairs(args)...); err != nil {
			return nilReply(), err
		}
		return okReply(), nil

	case CommandTMSetNX:
		written, err := s.MSetNX(pairs(args)...)
		return boolReply(written), err

	// Key commands

	case CommandTExists:
		var count int64
		for _, key := range args {
			exists, err := s.Exists(string(key))
			if err != nil {
				return nilReply(), err
			}
			if exists {
				count++
			}
		}
		return intReply(count), nil

	case CommandTType:
		keyType, err := s.Type(string(args[0]))
		return statusReply(string(keyType)), err

	case CommandTDel:
		var count int64
		for _, key := range args {
			deleted, err := s.Del(string(key))
			if err != nil {
				return nilReply(), err
			}
			if deleted {
				count++
			}
		}
		return intReply(count), nil

	case CommandTRename:
		if err := s.Rename(string(args[0]), string(args[1])); err != nil {
			return nilReply(), err
		}
		return okReply(), nil

	case CommandTRenameNX:
		renamed, err := s.RenameNX(string(args[0]), string(args[1]))
		return boolReply(renamed), err

	case CommandTKeys:
		pattern := ""
		if len(args) == 1 {
			pattern = string(args[0])
		}
		names, err := s.Keys(pattern)
		if err != nil {
			return nilReply(), err
		}
		values := make([][]byte, len(names))
		for i, name := range names {
			values[i] = []byte(name)
		}
		return arrayReply(values), nil

	case CommandTRandomKey:
		key, ok, err := s.RandomKey()
		return optionalReply([]byte(key), ok), err

	case CommandTDBSize:
		n, err := s.DBSize()
		return intReply(n), err

	case CommandTFlushDB:
		if err := s.FlushDB(); err != nil {
			return nilReply(), err
		}
		return okReply(), nil

	// Set commands

	case CommandTSAdd, CommandTSRem:
		var count int64
		for _, member := range args[1:] {
			var changed bool
			var err error
			if ct == CommandTSAdd {
				changed, err = s.SAdd(string(args[0]), member)
			} else {
				changed, err = s.SRem(string(args[0]), member)
			}
			if err != nil {
				return nilReply(), err
			}
			if changed {
				count++
			}
		}
		return intReply(count), nil

	case CommandTSMembers:
		members, err := s.SMembers(string(args[0]))
		return arrayReply(members), err

	case CommandTSIsMember:
		ok, err := s.SIsMember(string(args[0]), args[1])
		return boolReply(ok), err

	case CommandTSCard:
		n, err := s.SCard(string(args[0]))
		return intReply(n), err

	case CommandTSRandMember:
		member, ok, err := s.SRandMember(string(args[0]))
		return optionalReply(member, ok), err

	case CommandTSPop:
		// without a count a single member (or nil) is returned
		if len(args) == 1 {
			members, err := s.SPop(string(args[0]), 1)
			if err != nil || len(members) == 0 {
				return nilReply(), err
			}
			return bulkReply(members[0]), nil
		}
		count, err := parseInt(args[1])
		if err != nil {
			return nilReply(), err
		}
		members, err := s.SPop(string(args[0]), count)
		return arrayReply(members), err

	case CommandTSMove:
		moved, err := s.SMove(string(args[0]), string(args[1]), args[2])
		return boolReply(moved), err

	case CommandTSUnion:
		members, err := s.SUnion(keys(args)...)
		return arrayReply(members), err

	case CommandTSInter:
		members, err := s.SInter(keys(args)...)
		return arrayReply(members), err

	case CommandTSUnionStore:
		n, err := s.SUnionStore(string(args[0]), keys(args[1:])...)
		return intReply(n), err

	case CommandTSInterStore:
		n, err := s.SInterStore(string(args[0]), keys(args[1:])...)
		return intReply(n), err

	// Bit commands

	case CommandTBitCount:
		n, err := s.BitCount(string(args[0]))
		return intReply(n), err

	case CommandTSetBit:
		offset, err := parseInt(args[1])
		if err != nil {
			return nilReply(), err
		}
		bit, err := parseBit(args[2])
		if err != nil {
			return nilReply(), err
		}
		previous, err := s.SetBit(string(args[0]), offset, bit)
		return intReply(int64(previous)), err

	case CommandTGetBit:
		offset, err := parseInt(args[1])
		if err != nil {
			return nilReply(), err
		}
		bit, err := s.GetBit(string(args[0]), offset)
		return intReply(int64(bit)), err

	// Connection commands

	case CommandTPing:
		if !s.Ping() {
			return nilReply(), store.NewError(store.RetCInternalError, "store is closed")
		}
		if len(args) == 1 {
			return bulkReply(args[0]), nil
		}
		return statusReply("PONG"), nil

	case CommandTEcho:
		return bulkReply(s.Echo(args[0])), nil

	case CommandTInfo:
		info, err := s.GetDBInfo()
		if err != nil {
			return nilReply(), err
		}
		return bulkReply(formatInfo(info)), nil

	case CommandTClose:
		if err := s.Close(); err != nil {
			return nilReply(), err
		}
		return okReply(), nil

	default:
		return nilReply(), store.NewError(store.RetCUnsupportedOperation,
			fmt.Sprintf("unsupported command '%s'", ct))
	}
}

// formatInfo renders database details as "field:value" lines
func formatInfo(info db.DatabaseInfo) []byte {
	var sb strings.Builder
	sb.WriteString("# Database\r\n")
	fmt.Fprintf(&sb, "db_type:%s\r\n", info.DbType)
	fmt.Fprintf(&sb, "path:%s\r\n", info.Path)
	fmt.Fprintf(&sb, "durable:%t\r\n", info.Durable)
	fmt.Fprintf(&sb, "size_bytes:%d\r\n", info.SizeBytes)
	fmt.Fprintf(&sb, "cached_statements:%d\r\n", info.CachedStmts)
	sb.WriteString("# Keyspace\r\n")
	fmt.Fprintf(&sb, "string_entries:%d\r\n", info.StringEntries)
	fmt.Fprintf(&sb, "set_entries:%d\r\n", info.SetEntries)
	return []byte(sb.String())
}
