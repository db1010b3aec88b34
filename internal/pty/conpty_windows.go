//go:build windows

package pty

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// procThreadAttributePseudoconsole is PROC_THREAD_ATTRIBUTE_PSEUDOCONSOLE,
// not exposed by golang.org/x/sys/windows.
const procThreadAttributePseudoconsole = 0x00020016

var (
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procCreatePseudoConsole = kernel32.NewProc("CreatePseudoConsole")
	procResizePseudoConsole = kernel32.NewProc("ResizePseudoConsole")
	procClosePseudoConsole  = kernel32.NewProc("ClosePseudoConsole")
	procPeekNamedPipe       = kernel32.NewProc("PeekNamedPipe")
)

// conPty is the Windows ConPTY-backed Pty.
type conPty struct {
	mu     sync.Mutex
	handle windows.Handle // HPCON

	ourIn    windows.Handle // write end, ours
	ourOut   windows.Handle // read end, ours
	childIn  windows.Handle // read end, child's stdin, closed after spawn
	childOut windows.Handle // write end, child's stdout, closed after spawn

	process windows.Handle
	closed  bool
}

// WindowsSpawner implements Spawner on top of the Windows ConPTY API.
type WindowsSpawner struct{}

func (WindowsSpawner) Spawn(commandLine string, cols, rows int, workDir string) (Pty, error) {

	// Pipe pairs: pty's input pipe feeds the child's stdin; the child's
	// stdout feeds the pty's output pipe. ConPTY takes the child-facing
	// ends and hands back the PTY-facing ends via CreatePseudoConsole.
	var ptyIn, childStdin, childStdout, ptyOut windows.Handle
	if err := windows.CreatePipe(&childStdin, &ptyIn, nil, 0); err != nil {
		return nil, fmt.Errorf("pty: create stdin pipe: %w", err)
	}
	if err := windows.CreatePipe(&ptyOut, &childStdout, nil, 0); err != nil {
		return nil, fmt.Errorf("pty: create stdout pipe: %w", err)
	}

	size := uintptr(uint32(uint16(cols)) | uint32(uint16(rows))<<16)

	var hpcon windows.Handle
	r, _, _ := procCreatePseudoConsole.Call(
		size,
		uintptr(childStdin),
		uintptr(childStdout),
		0,
		uintptr(unsafe.Pointer(&hpcon)),
	)
	if r != 0 { // HRESULT non-zero is failure
		windows.CloseHandle(childStdin)
		windows.CloseHandle(childStdout)
		windows.CloseHandle(ptyIn)
		windows.CloseHandle(ptyOut)
		return nil, fmt.Errorf("pty: CreatePseudoConsole failed: hresult=0x%x", r)
	}

	attrList, err := windows.NewProcThreadAttributeList(1)
	if err != nil {
		return nil, fmt.Errorf("pty: new attribute list: %w", err)
	}
	if err := attrList.Update(
		procThreadAttributePseudoconsole,
		unsafe.Pointer(&hpcon),
		unsafe.Sizeof(hpcon),
	); err != nil {
		return nil, fmt.Errorf("pty: update attribute list: %w", err)
	}

	siEx := new(windows.StartupInfoEx)
	siEx.ProcThreadAttributeList = attrList.List()
	siEx.Cb = uint32(unsafe.Sizeof(*siEx))

	var procInfo windows.ProcessInformation
	argv, err := windows.UTF16PtrFromString(commandLine)
	if err != nil {
		return nil, fmt.Errorf("pty: encode command line: %w", err)
	}

	var workDirPtr *uint16
	if workDir != "" {
		workDirPtr, err = windows.UTF16PtrFromString(workDir)
		if err != nil {
			return nil, fmt.Errorf("pty: encode work dir: %w", err)
		}
	}

	const extendedStartupInfoPresent = 0x00080400 // EXTENDED_STARTUPINFO_PRESENT | CREATE_UNICODE_ENVIRONMENT

	err = windows.CreateProcess(
		nil, argv, nil, nil, false,
		extendedStartupInfoPresent,
		nil, workDirPtr,
		&siEx.StartupInfo, &procInfo,
	)
	if err != nil {
		return nil, fmt.Errorf("pty: CreateProcess: %w", err)
	}
	windows.CloseHandle(procInfo.Thread)

	// The child-facing pipe ends are now owned by the console host; our
	// copies must be closed so the child sees EOF when it exits.
	windows.CloseHandle(childStdin)
	windows.CloseHandle(childStdout)

	return &conPty{
		handle:  hpcon,
		ourIn:   ptyIn,
		ourOut:  ptyOut,
		process: procInfo.Process,
	}, nil
}

func (c *conPty) Read(p []byte) (int, error) {
	var n uint32
	err := windows.ReadFile(c.ourOut, p, &n, nil)
	if err != nil {
		if err == windows.ERROR_BROKEN_PIPE {
			return int(n), nil
		}
		return int(n), err
	}
	return int(n), nil
}

// BytesAvailable uses PeekNamedPipe to report buffered-but-unread bytes
// without consuming them, letting IoReader's coalescing loop (spec
// §4.5 step 6) decide whether another read would block.
func (c *conPty) BytesAvailable() (int, error) {
	var available uint32
	r, _, err := procPeekNamedPipe.Call(
		uintptr(c.ourOut), 0, 0, 0,
		uintptr(unsafe.Pointer(&available)), 0,
	)
	if r == 0 {
		return 0, err
	}
	return int(available), nil
}

func (c *conPty) Write(p []byte) (int, error) {
	var n uint32
	err := windows.WriteFile(c.ourIn, p, &n, nil)
	return int(n), err
}

func (c *conPty) Resize(cols, rows int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := uintptr(uint32(uint16(cols)) | uint32(uint16(rows))<<16)
	r, _, _ := procResizePseudoConsole.Call(uintptr(c.handle), size)
	if r != 0 {
		return fmt.Errorf("pty: ResizePseudoConsole failed: hresult=0x%x", r)
	}
	return nil
}

func (c *conPty) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	procClosePseudoConsole.Call(uintptr(c.handle))
	windows.CloseHandle(c.ourIn)
	windows.CloseHandle(c.ourOut)
	return nil
}

func (c *conPty) Wait() (int, error) {
	_, err := windows.WaitForSingleObject(c.process, syscall.INFINITE)
	if err != nil {
		return -1, err
	}

	var code uint32
	if err := windows.GetExitCodeProcess(c.process, &code); err != nil {
		return -1, err
	}
	windows.CloseHandle(c.process)
	return int(code), nil
}

var _ Pty = (*conPty)(nil)
var _ Spawner = WindowsSpawner{}
