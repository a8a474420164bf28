package display

import "github.com/pkg/errors"

// scsiCommandBlock wraps a 16-byte vendor command in a USB mass-storage
// command block wrapper (CBW).
func scsiCommandBlock(cmd []byte, blockLen int, out bool) []byte {
	var flags byte = 0x80 // data in (device to host)
	if out {
		flags = 0x00
	}

	buf := []byte{
		0x55, 0x53, 0x42, 0x43, // dCBWSignature
		0xde, 0xad, 0xbe, 0xef, // dCBWTag
		byte(blockLen), byte(blockLen >> 8), byte(blockLen >> 16), byte(blockLen >> 24),
		flags,
		0x00, // bCBWLUN
		byte(len(cmd)),

		0xcd, 0x00, 0x00, 0x00,
		0x00, 0x06, 0x11, 0xf8,
		0x70, 0x00, 0x40, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	copy(buf[15:], cmd)
	return buf
}

// checkAck validates a command status wrapper (CSW).
func checkAck(reply []byte) error {
	if len(reply) < 4 || string(reply[:4]) != "USBS" {
		return errors.Errorf("invalid status reply % x", reply)
	}
	return nil
}
