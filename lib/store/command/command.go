package command

import (
	"fmt"
	"strings"
)

// CommandType enumerates every command the dispatcher understands.
type CommandType uint8

const (
	// String commands
	CommandTGet CommandType = iota
	CommandTSet
	CommandTSetNX
	CommandTGetSet
	CommandTAppend
	CommandTStrLen
	CommandTGetRange
	CommandTSetRange
	CommandTIncr
	CommandTIncrBy
	CommandTDecr
	CommandTDecrBy
	CommandTMGet
	CommandTMSet
	CommandTMSetNX

	// Key commands
	CommandTExists
	CommandTType
	CommandTDel
	CommandTRename
	CommandTRenameNX
	CommandTKeys
	CommandTRandomKey
	CommandTDBSize
	CommandTFlushDB

	// Set commands
	CommandTSAdd
	CommandTSRem
	CommandTSMembers
	CommandTSIsMember
	CommandTSCard
	CommandTSRandMember
	CommandTSPop
	CommandTSMove
	CommandTSUnion
	CommandTSInter
	CommandTSUnionStore
	CommandTSInterStore

	// Bit commands
	CommandTBitCount
	CommandTSetBit
	CommandTGetBit

	// Connection commands
	CommandTPing
	CommandTEcho
	CommandTInfo
	CommandTClose

	numCommands
)

// commandInfo describes the name and the accepted number of arguments of a command.
// maxArgs < 0 means the command is variadic.
type commandInfo struct {
	name    string
	minArgs int
	maxArgs int
}

var commandTable = [numCommands]commandInfo{
	CommandTGet:         {"GET", 1, 1},
	CommandTSet:         {"SET", 2, 2},
	CommandTSetNX:       {"SETNX", 2, 2},
	CommandTGetSet:      {"GETSET", 2, 2},
	CommandTAppend:      {"APPEND", 2, 2},
	CommandTStrLen:      {"STRLEN", 1, 1},
	CommandTGetRange:    {"GETRANGE", 3, 3},
	CommandTSetRange:    {"SETRANGE", 3, 3},
	CommandTIncr:        {"INCR", 1, 1},
	CommandTIncrBy:      {"INCRBY", 2, 2},
	CommandTDecr:        {"DECR", 1, 1},
	CommandTDecrBy:      {"DECRBY", 2, 2},
	CommandTMGet:        {"MGET", 1, -1},
	CommandTMSet:        {"MSET", 2, -1},
	CommandTMSetNX:      {"MSETNX", 2, -1},
	CommandTExists:      {"EXISTS", 1, -1},
	CommandTType:        {"TYPE", 1, 1},
	CommandTDel:         {"DEL", 1, -1},
	CommandTRename:      {"RENAME", 2, 2},
	CommandTRenameNX:    {"RENAMENX", 2, 2},
	CommandTKeys:        {"KEYS", 0, 1},
	CommandTRandomKey:   {"RANDOMKEY", 0, 0},
	CommandTDBSize:      {"DBSIZE", 0, 0},
	CommandTFlushDB:     {"FLUSHDB", 0, 0},
	CommandTSAdd:        {"SADD", 2, -1},
	CommandTSRem:        {"SREM", 2, -1},
	CommandTSMembers:    {"SMEMBERS", 1, 1},
	CommandTSIsMember:   {"SISMEMBER", 2, 2},
	CommandTSCard:       {"SCARD", 1, 1},
	CommandTSRandMember: {"SRANDMEMBER", 1, 1},
	CommandTSPop:        {"SPOP", 1, 2},
	CommandTSMove:       {"SMOVE", 3, 3},
	CommandTSUnion:      {"SUNION", 1, -1},
	CommandTSInter:      {"SINTER", 1, -1},
	CommandTSUnionStore: {"SUNIONSTORE", 2, -1},
	CommandTSInterStore: {"SINTERSTORE", 2, -1},
	CommandTBitCount:    {"BITCOUNT", 1, 1},
	CommandTSetBit:      {"SETBIT", 3, 3},
	CommandTGetBit:      {"GETBIT", 2, 2},
	CommandTPing:        {"PING", 0, 1},
	CommandTEcho:        {"ECHO", 1, 1},
	CommandTInfo:        {"INFO", 0, 0},
	CommandTClose:       {"CLOSE", 0, 0},
}

// aliases maps alternative names onto a command
var aliases = map[string]CommandType{
	"QUIT":     CommandTClose,
	"SHUTDOWN": CommandTClose,
}

var byName = func() map[string]CommandType {
	names := make(map[string]CommandType, int(numCommands)+len(aliases))
	for ct := CommandType(0); ct < numCommands; ct++ {
		names[commandTable[ct].name] = ct
	}
	for alias, ct := range aliases {
		names[alias] = ct
	}
	return names
}()

func (ct CommandType) String() string {
	if ct < numCommands {
		return commandTable[ct].name
	}
	return fmt.Sprintf("Unknown(%d)", ct)
}

// ParseCommandType resolves a command name (case-insensitive).
// The second return value is false if the command is not supported.
func ParseCommandType(name string) (CommandType, bool) {
	ct, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return ct, ok
}

// Commands returns all supported command types in declaration order
func Commands() []CommandType {
	types := make([]CommandType, numCommands)
	for i := range types {
		types[i] = CommandType(i)
	}
	return types
}

// checkArity reports whether n arguments are accepted by the command
func (ct CommandType) checkArity(n int) bool {
	info := commandTable[ct]
	if n < info.minArgs {
		return false
	}
	if info.maxArgs >= 0 && n > info.maxArgs {
		return false
	}
	// key value pairs
	if (ct == CommandTMSet || ct == CommandTMSetNX) && n%2 != 0 {
		return false
	}
	return true
}
