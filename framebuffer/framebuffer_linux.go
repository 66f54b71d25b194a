package framebuffer

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string, config *Config) (*Device, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	var (
		fd    = int(f.Fd())
		info  fixScreenInfo
		vinfo varScreenInfo
	)
	if err = ioctl(fd, fbioGetFScreenInfo, unsafe.Pointer(&info)); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Request virtual screen info.
	if err = ioctl(fd, fbioGetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		_ = f.Close()
		return nil, err
	}

	format, err := parseFormat(vinfo.BitsPerPixel,
		vinfo.Red.Offset, vinfo.Red.Length,
		vinfo.Green.Offset, vinfo.Green.Length,
		vinfo.Blue.Offset, vinfo.Blue.Length)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w (%d bpp)", err, vinfo.BitsPerPixel)
	}

	// Map pixel buffer.
	mem, err := unix.Mmap(fd, 0, int(info.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	// Start at the visible page of the virtual screen.
	offset := int(vinfo.Yoffset)*int(info.LineLength) + int(vinfo.Xoffset)*format.BytesPerPixel()
	page, err := visiblePage(mem, offset)
	if err != nil {
		_ = unix.Munmap(mem)
		_ = f.Close()
		return nil, err
	}
	fb, err := newDevice(name, page, int(vinfo.Xres), int(vinfo.Yres), int(info.LineLength), format, config)
	if err != nil {
		_ = unix.Munmap(mem)
		_ = f.Close()
		return nil, err
	}
	fb.close = func() error {
		if err := unix.Munmap(mem); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
	return fb, nil
}

func ioctl(fd int, cmd uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), cmd, uintptr(arg)); errno != 0 {
		return os.NewSyscallError("SYS_IOCTL", errno)
	}
	return nil
}

type fixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// bitField for the color
type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// varScreenInfo contains device independent changeable information about a frame buffer device and a specific video mode.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}
