package op

import "fmt"

// Opcode is the operation part of the command word.
type Opcode uint16

// Opcodes.
const (
	Nop                 Opcode = 0x0000
	Jmp                 Opcode = 0x0001
	StoreJmp            Opcode = 0x0002
	Copy                Opcode = 0x0003
	PrintTxt            Opcode = 0x0004
	PrintVal            Opcode = 0x0005
	Add                 Opcode = 0x0006
	Sub                 Opcode = 0x0007
	Mul                 Opcode = 0x0008
	Div                 Opcode = 0x0009
	RandRange           Opcode = 0x000A
	Rand                Opcode = 0x000B
	Cap                 Opcode = 0x000C
	MaxCap              Opcode = 0x000D
	Synch               Opcode = 0x000E
	Sense               Opcode = 0x000F
	SenseMax            Opcode = 0x0010
	Turn                Opcode = 0x0011
	Advance             Opcode = 0x0012
	AdvanceWithStore    Opcode = 0x0013
	SenseResultCount    Opcode = 0x0014
	SenseResultLocation Opcode = 0x0015
	SenseResultType     Opcode = 0x0016
	MaxSenseRange       Opcode = 0x0017
	CwTurnCountTo       Opcode = 0x0018
	DistanceTo          Opcode = 0x0019
	DistanceBetween     Opcode = 0x001A
	GetLocation         Opcode = 0x001B
	GetLinenumberPlus   Opcode = 0x001C
	Linenumber          Opcode = 0x001D
	LineCount           Opcode = 0x001E
	MaxTransmitRange    Opcode = 0x001F
	Transmit            Opcode = 0x0020
	MaxBroadcastRange   Opcode = 0x0021
	Broadcast           Opcode = 0x0022
	GetBlueprintCount   Opcode = 0x0023
	Assert              Opcode = 0x0024
	Xor                 Opcode = 0x0025
	Or                  Opcode = 0x0026
	And                 Opcode = 0x0027
	LeftShift           Opcode = 0x0028
	RightShift          Opcode = 0x0029
	Eq                  Opcode = 0x002A
	Neq                 Opcode = 0x002B
	BoolAnd             Opcode = 0x002C
	BoolOr              Opcode = 0x002D
	BoolLt              Opcode = 0x002E
	BoolGt              Opcode = 0x002F
	BoolLte             Opcode = 0x0030
	BoolGte             Opcode = 0x0031
	Modulo              Opcode = 0x0032
	JmpEq               Opcode = 0x0033
	JmpNeq              Opcode = 0x0034
	JmpLt               Opcode = 0x0035
	JmpGt               Opcode = 0x0036
	JmpLte              Opcode = 0x0037
	JmpGte              Opcode = 0x0038
	Abs                 Opcode = 0x0039
	SwapCode            Opcode = 0x003A
	CopyCode            Opcode = 0x003B
	CompareCodeLine     Opcode = 0x003C
	MsgClearMsgs        Opcode = 0x003D
	CopyMsgbufCode      Opcode = 0x003E
	MoveMsgMsgbuf       Opcode = 0x003F
	MsgbufLineCount     Opcode = 0x0040
	GetMsgsCount        Opcode = 0x0041
	GetMaxMsgs          Opcode = 0x0042
	CanBuild            Opcode = 0x0043
	Build               Opcode = 0x0044
	CanAimAt            Opcode = 0x0045
	AimAt               Opcode = 0x0046
	CanFireAt           Opcode = 0x0047
	FireAt              Opcode = 0x0048
	HasLineOfFireTo     Opcode = 0x0049
	SelfDestruct        Opcode = 0x004A
	IsLocation          Opcode = 0x004B
	IsCargoLocked       Opcode = 0x004C
	LockCargo           Opcode = 0x004D
	CargoholdFreeSpace  Opcode = 0x004E
	CargoholdSpaceUsed  Opcode = 0x004F
	CargoholdVolume     Opcode = 0x0050
	CargoholdUnitsOf    Opcode = 0x0051
	CargoholdVolOf      Opcode = 0x0052
	GiveCargoTo         Opcode = 0x0053
	TakeCargoFrom       Opcode = 0x0054
	NavigateTo          Opcode = 0x0055
	NavigateNTowards    Opcode = 0x0056
	SetAstarWeight      Opcode = 0x0057
	GetAstarWeight      Opcode = 0x0058
	Refine              Opcode = 0x0059
	GetRefinePeriod     Opcode = 0x005A
	PlotRouteBetween    Opcode = 0x005B
	GetRouteLength      Opcode = 0x005C
	CopyRoute           Opcode = 0x005D
	SetErrorCode        Opcode = 0x005E
	GetErrorCode        Opcode = 0x005F
	GetPrice            Opcode = 0x0060
	GetAvailability     Opcode = 0x0061
	TryBuy              Opcode = 0x0062
	TryBuyWithStore     Opcode = 0x0063
	ForSale             Opcode = 0x0064
	CancelSales         Opcode = 0x0065
	GetCreditsBalance   Opcode = 0x0066
	TransferCreditsTo   Opcode = 0x0067
	Location            Opcode = 0x0999 // Not available in source, written by the VM.
)

// OpcodeInfo is the definition of an opcode.
type OpcodeInfo struct {
	Name    string
	Code    Opcode
	Comment string
}

var OpcodeTable = []OpcodeInfo{
	{"NOP", Nop, "no operation"},
	{"JMP", Jmp, "jump to line"},
	{"STORE_JMP", StoreJmp, "store return line and jump"},
	{"COPY", Copy, "copy value to address"},
	{"PRINT_TXT", PrintTxt, "print packed text"},
	{"PRINT_VAL", PrintVal, "print value"},
	{"ADD", Add, "addition"},
	{"SUB", Sub, "subtraction"},
	{"MUL", Mul, "multiplication"},
	{"DIV", Div, "division"},
	{"RAND_RANGE", RandRange, "random value in range"},
	{"RAND", Rand, "random value"},
	{"CAP", Cap, "capacitance"},
	{"MAX_CAP", MaxCap, "max capacitance"},
	{"SYNCH", Synch, "wait for ticks"},
	{"SENSE", Sense, "sense within range"},
	{"SENSE_MAX", SenseMax, "sense at max range"},
	{"TURN", Turn, "turn"},
	{"ADVANCE", Advance, "advance"},
	{"ADVANCE_WITH_STORE", AdvanceWithStore, "advance and store result"},
	{"SENSE_RESULT_COUNT", SenseResultCount, "sense result count"},
	{"SENSE_RESULT_LOCATION", SenseResultLocation, "sense result location"},
	{"SENSE_RESULT_TYPE", SenseResultType, "sense result type"},
	{"MAX_SENSE_RANGE", MaxSenseRange, "max sense range"},
	{"CW_TURN_COUNT_TO", CwTurnCountTo, "clockwise turns to location"},
	{"DISTANCE_TO", DistanceTo, "distance to location"},
	{"DISTANCE_BETWEEN", DistanceBetween, "distance between locations"},
	{"GET_LOCATION", GetLocation, "current location"},
	{"GET_LINENUMBER_PLUS", GetLinenumberPlus, "current line plus offset"},
	{"LINENUMBER", Linenumber, "current line"},
	{"LINE_COUNT", LineCount, "program line count"},
	{"MAX_TRANSMIT_RANGE", MaxTransmitRange, "max transmit range"},
	{"TRANSMIT", Transmit, "transmit code"},
	{"MAX_BROADCAST_RANGE", MaxBroadcastRange, "max broadcast range"},
	{"BROADCAST", Broadcast, "broadcast code"},
	{"GET_BLUEPRINT_COUNT", GetBlueprintCount, "blueprint count"},
	{"ASSERT", Assert, "assert"},
	{"XOR", Xor, "bitwise xor"},
	{"OR", Or, "bitwise or"},
	{"AND", And, "bitwise and"},
	{"LEFT_SHIFT", LeftShift, "left shift"},
	{"RIGHT_SHIFT", RightShift, "right shift"},
	{"EQ", Eq, "equal"},
	{"NEQ", Neq, "not equal"},
	{"BOOL_AND", BoolAnd, "logical and"},
	{"BOOL_OR", BoolOr, "logical or"},
	{"BOOL_LT", BoolLt, "less than"},
	{"BOOL_GT", BoolGt, "greater than"},
	{"BOOL_LTE", BoolLte, "less or equal"},
	{"BOOL_GTE", BoolGte, "greater or equal"},
	{"MODULO", Modulo, "modulo"},
	{"JMP_EQ", JmpEq, "jump if equal"},
	{"JMP_NEQ", JmpNeq, "jump if not equal"},
	{"JMP_LT", JmpLt, "jump if less"},
	{"JMP_GT", JmpGt, "jump if greater"},
	{"JMP_LTE", JmpLte, "jump if less or equal"},
	{"JMP_GTE", JmpGte, "jump if greater or equal"},
	{"ABS", Abs, "absolute value"},
	{"SWAP_CODE", SwapCode, "swap code lines"},
	{"COPY_CODE", CopyCode, "copy code lines"},
	{"COMPARE_CODE_LINE", CompareCodeLine, "compare code lines"},
	{"MSG_CLEAR_MSGS", MsgClearMsgs, "clear messages"},
	{"COPY_MSGBUF_CODE", CopyMsgbufCode, "copy message buffer to code"},
	{"MOVE_MSG_MSGBUF", MoveMsgMsgbuf, "move message to buffer"},
	{"MSGBUF_LINE_COUNT", MsgbufLineCount, "message buffer line count"},
	{"GET_MSGS_COUNT", GetMsgsCount, "message count"},
	{"GET_MAX_MSGS", GetMaxMsgs, "max messages"},
	{"CAN_BUILD", CanBuild, "can build blueprint"},
	{"BUILD", Build, "build blueprint"},
	{"CAN_AIM_AT", CanAimAt, "can aim at location"},
	{"AIM_AT", AimAt, "aim at location"},
	{"CAN_FIRE_AT", CanFireAt, "can fire at location"},
	{"FIRE_AT", FireAt, "fire at location"},
	{"HAS_LINE_OF_FIRE_TO", HasLineOfFireTo, "line of fire to location"},
	{"SELF_DESTRUCT", SelfDestruct, "self destruct"},
	{"IS_LOCATION", IsLocation, "value is a location"},
	{"IS_CARGO_LOCKED", IsCargoLocked, "cargohold locked"},
	{"LOCK_CARGO", LockCargo, "lock cargohold"},
	{"CARGOHOLD_FREE_SPACE", CargoholdFreeSpace, "cargohold free space"},
	{"CARGOHOLD_SPACE_USED", CargoholdSpaceUsed, "cargohold space used"},
	{"CARGOHOLD_VOLUME", CargoholdVolume, "cargohold volume"},
	{"CARGOHOLD_UNITS_OF", CargoholdUnitsOf, "cargohold units of"},
	{"CARGOHOLD_VOL_OF", CargoholdVolOf, "cargohold volume of"},
	{"GIVE_CARGO_TO", GiveCargoTo, "give cargo"},
	{"TAKE_CARGO_FROM", TakeCargoFrom, "take cargo"},
	{"NAVIGATE_TO", NavigateTo, "navigate to location"},
	{"NAVIGATE_N_TOWARDS", NavigateNTowards, "navigate n steps towards location"},
	{"SET_ASTAR_WEIGHT", SetAstarWeight, "set navigation weighting"},
	{"GET_ASTAR_WEIGHT", GetAstarWeight, "navigation weighting"},
	{"REFINE", Refine, "refine"},
	{"GET_REFINE_PERIOD", GetRefinePeriod, "refine period"},
	{"PLOT_ROUTE_BETWEEN", PlotRouteBetween, "plot route"},
	{"GET_ROUTE_LENGTH", GetRouteLength, "route length"},
	{"COPY_ROUTE", CopyRoute, "copy route"},
	{"SET_ERROR_CODE", SetErrorCode, "set error code"},
	{"GET_ERROR_CODE", GetErrorCode, "error code"},
	{"GET_PRICE", GetPrice, "price"},
	{"GET_AVAILABILITY", GetAvailability, "availability"},
	{"TRY_BUY", TryBuy, "try buy"},
	{"TRY_BUY_WITH_STORE", TryBuyWithStore, "try buy and store result"},
	{"FOR_SALE", ForSale, "put for sale"},
	{"CANCEL_SALES", CancelSales, "cancel sales"},
	{"GET_CREDITS_BALANCE", GetCreditsBalance, "credits balance"},
	{"TRANSFER_CREDITS_TO", TransferCreditsTo, "transfer credits"},
	{"LOCATION", Location, "location literal"},
}

var opcodeIndex = func() map[Opcode]int {
	m := make(map[Opcode]int, len(OpcodeTable))
	for i, elem := range OpcodeTable {
		m[elem.Code] = i
	}
	return m
}()

// Lookup returns the definition of the given opcode.
func Lookup(code Opcode) (OpcodeInfo, bool) {
	i, ok := opcodeIndex[code]
	if !ok {
		return OpcodeInfo{}, false
	}
	return OpcodeTable[i], true
}

// Valid reports whether the opcode is part of the instruction set.
func (o Opcode) Valid() bool {
	_, ok := opcodeIndex[o]
	return ok
}

func (o Opcode) String() string {
	if info, ok := Lookup(o); ok {
		return info.Name
	}
	return fmt.Sprintf("0x%04X", uint16(o))
}
