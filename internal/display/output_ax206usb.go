//go:build !windows

package display

import (
	"image"
	"sync"
	"time"

	"github.com/google/gousb"
	"github.com/pkg/errors"

	"battindicator/internal/logging"
)

const (
	ax206vid = 0x1908
	ax206pid = 0x0102

	usbCmdSetProperty = 0x01
	usbCmdBlit        = 0x12

	ax206interface = 0x00
	ax206endpOut   = 0x01
	ax206endpIn    = 0x81

	ax206MaxBrightness = 7
)

// ax206Device speaks the SCSI-over-bulk protocol of AX206 picture frames.
type ax206Device struct {
	width  int
	height int

	ctx     *gousb.Context
	device  *gousb.Device
	config  *gousb.Config
	intf    *gousb.Interface
	outEndp *gousb.OutEndpoint
	inEndp  *gousb.InEndpoint
}

func openAX206() (*ax206Device, error) {
	d := &ax206Device{ctx: gousb.NewContext()}

	device, err := d.ctx.OpenDeviceWithVIDPID(ax206vid, ax206pid)
	if err != nil {
		d.close()
		return nil, errors.Wrap(err, "open device")
	}
	if device == nil {
		d.close()
		return nil, errors.New("no AX206 device attached")
	}
	d.device = device

	if d.config, err = device.Config(1); err != nil {
		d.close()
		return nil, errors.Wrap(err, "select config")
	}
	if d.intf, err = d.config.Interface(ax206interface, 0); err != nil {
		d.close()
		return nil, errors.Wrap(err, "claim interface")
	}
	if d.outEndp, err = d.intf.OutEndpoint(ax206endpOut); err != nil {
		d.close()
		return nil, errors.Wrap(err, "out endpoint")
	}
	if d.inEndp, err = d.intf.InEndpoint(ax206endpIn); err != nil {
		d.close()
		return nil, errors.Wrap(err, "in endpoint")
	}

	if d.width, d.height, err = d.dimensions(); err != nil {
		logging.WarnModule("ax206usb", "Dimension query failed, assuming 480x320: %v", err)
		d.width, d.height = 480, 320
	}
	logging.DebugModule("ax206usb", "Panel is %dx%d", d.width, d.height)
	return d, nil
}

func (d *ax206Device) dimensions() (width, height int, err error) {
	cmd := []byte{
		0xcd, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	}
	data, err := d.scsiRead(cmd, 5)
	if err != nil {
		return 0, 0, err
	}
	if len(data) < 4 {
		return 0, 0, errors.New("short dimension reply")
	}
	width = int(data[0]) | int(data[1])<<8
	height = int(data[2]) | int(data[3])<<8
	return width, height, nil
}

func (d *ax206Device) brightness(lvl int) error {
	if lvl < 0 {
		lvl = 0
	}
	if lvl > ax206MaxBrightness {
		lvl = ax206MaxBrightness
	}

	cmd := []byte{
		0xcd, 0, 0, 0,
		0, 6, usbCmdSetProperty,
		1, 0, // PROPERTY_BRIGHTNESS
		byte(lvl), byte(lvl >> 8),
		0, 0, 0, 0, 0,
	}
	return d.scsiWrite(cmd, nil)
}

func (d *ax206Device) blit(img *ImageRGB565) error {
	r := img.Rect
	cmd := []byte{
		0xcd, 0, 0, 0,
		0, 6, usbCmdBlit,
		byte(r.Min.X), byte(r.Min.X >> 8),
		byte(r.Min.Y), byte(r.Min.Y >> 8),
		byte(r.Max.X - 1), byte((r.Max.X - 1) >> 8),
		byte(r.Max.Y - 1), byte((r.Max.Y - 1) >> 8),
		0,
	}
	return d.scsiWrite(cmd, img.PixRect())
}

func (d *ax206Device) close() {
	if d.intf != nil {
		d.intf.Close()
		d.intf = nil
	}
	if d.config != nil {
		d.config.Close()
		d.config = nil
	}
	if d.device != nil {
		d.device.Close()
		d.device = nil
	}
	if d.ctx != nil {
		d.ctx.Close()
		d.ctx = nil
	}
}

func (d *ax206Device) scsiWrite(cmd []byte, data []byte) error {
	if _, err := d.outEndp.Write(scsiCommandBlock(cmd, len(data), true)); err != nil {
		return errors.Wrap(err, "command write")
	}
	if data != nil {
		if _, err := d.outEndp.Write(data); err != nil {
			return errors.Wrap(err, "data write")
		}
	}
	return d.scsiAck()
}

func (d *ax206Device) scsiRead(cmd []byte, blockLen int) ([]byte, error) {
	if _, err := d.outEndp.Write(scsiCommandBlock(cmd, blockLen, false)); err != nil {
		return nil, errors.Wrap(err, "command write")
	}

	data := make([]byte, blockLen)
	n, err := d.inEndp.Read(data)
	if err != nil {
		return nil, errors.Wrap(err, "data read")
	}
	return data[:n], d.scsiAck()
}

func (d *ax206Device) scsiAck() error {
	buf := make([]byte, 13)
	n, err := d.inEndp.Read(buf)
	if err != nil {
		return errors.Wrap(err, "ack read")
	}
	return checkAck(buf[:n])
}

// AX206USBOutputHandler pushes frames to an AX206 USB picture frame,
// reconnecting on the next frame after any transfer error.
type AX206USBOutputHandler struct {
	device     *ax206Device
	brightness int
	mutex      sync.Mutex
	lastError  time.Time
}

func NewAX206USBOutputHandler(brightness int) *AX206USBOutputHandler {
	h := &AX206USBOutputHandler{brightness: brightness}
	h.tryConnect()
	return h
}

func (h *AX206USBOutputHandler) tryConnect() {
	if h.device != nil {
		h.device.close()
		h.device = nil
	}

	device, err := openAX206()
	if err != nil {
		// Only log occasionally to avoid spam while unplugged
		if time.Since(h.lastError) > 10*time.Second {
			logging.WarnModule("ax206usb", "Device not available: %v", err)
			h.lastError = time.Now()
		}
		return
	}

	if err := device.brightness(h.brightness); err != nil {
		logging.WarnModule("ax206usb", "Device test failed: %v", err)
		device.close()
		return
	}

	h.device = device
	logging.InfoModule("ax206usb", "Connected (%dx%d)", device.width, device.height)
}

func (h *AX206USBOutputHandler) GetType() string {
	return "ax206usb"
}

func (h *AX206USBOutputHandler) Output(img image.Image) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.device == nil {
		h.tryConnect()
		if h.device == nil {
			return errors.New("device not available")
		}
	}

	if err := h.device.blit(NewRGB565Image(img)); err != nil {
		logging.ErrorModule("ax206usb", "Transfer failed: %v", err)
		h.device.close()
		h.device = nil
		return err
	}
	return nil
}

func (h *AX206USBOutputHandler) Close() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.device != nil {
		logging.InfoModule("ax206usb", "Disconnecting")
		h.device.close()
		h.device = nil
	}
	return nil
}
