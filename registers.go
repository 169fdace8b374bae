package ledmatrix

// MAX7219 register addresses. The digit registers 1 to 8 hold one display row each.
const (
	max7219NoOp        = 0x00
	max7219Digit0      = 0x01
	max7219DecodeMode  = 0x09
	max7219Intensity   = 0x0A
	max7219ScanLimit   = 0x0B
	max7219Shutdown    = 0x0C
	max7219DisplayTest = 0x0F
)

// Register values.
const (
	max7219DecodeNone    = 0x00
	max7219ScanAllDigits = 0x07
	max7219PowerDown     = 0x00
	max7219PowerUp       = 0x01
	max7219TestOff       = 0x00
	max7219TestOn        = 0x01
)
