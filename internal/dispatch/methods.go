package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/homerpc/internal/device"
	"github.com/nerrad567/homerpc/internal/home"
	"github.com/nerrad567/homerpc/internal/jsonrpc"
)

// Method names accepted by Execute.
const (
	MethodAddRoom              = "addRoom"
	MethodDelRoom              = "delRoom"
	MethodGetDevices           = "getDevices"
	MethodCreateReport         = "createReport"
	MethodCreateProviderReport = "createProviderReport"
	MethodReset                = "reset"
	MethodDeviceExecute        = "deviceExecute"
)

// Device sub-commands of deviceExecute.
const (
	CommandGetName        = "get_name"
	CommandGetDescription = "get_description"
	CommandGetCurrentInfo = "get_current_info"
	CommandReport         = "report"
	CommandSwitch         = "switch"
)

const unknownMethodData = "unexpected reply to an unexpected request"

type nameParams struct {
	Name string `json:"name"`
}

type providerParams struct {
	Provider json.RawMessage `json:"provider"`
}

type deviceParams struct {
	Room    string            `json:"room"`
	Device  string            `json:"device"`
	Command string            `json:"command"`
	Data    []json.RawMessage `json:"data"`
}

// Execute runs one command and returns its reply code and data. change is
// set when the command switched a device to a different state.
//
// Unknown methods answer with CodeInternalError; clients rely on it.
func (d *Dispatcher) Execute(req jsonrpc.Request) (code jsonrpc.Code, data string, change *StateChange) {
	switch req.Method {
	case MethodAddRoom:
		code, data = d.addRoom(req)
	case MethodDelRoom:
		code, data = d.delRoom(req)
	case MethodGetDevices:
		code, data = d.getDevices(req)
	case MethodCreateReport:
		code, data = jsonrpc.CodeOK, d.home.CreateReport()
	case MethodCreateProviderReport:
		code, data = d.createProviderReport(req)
	case MethodReset:
		d.queue.Reset()
		code, data = jsonrpc.CodeOK, "reset: success"
	case MethodDeviceExecute:
		return d.deviceExecute(req)
	default:
		code, data = jsonrpc.CodeInternalError, unknownMethodData
	}
	return code, data, nil
}

func (d *Dispatcher) addRoom(req jsonrpc.Request) (jsonrpc.Code, string) {
	var p nameParams
	if err := req.DecodeParams(&p); err != nil {
		return jsonrpc.CodeInvalidParams, fmt.Sprintf("addRoom error: %v", err)
	}
	if err := d.home.AddRoom(p.Name); err != nil {
		return jsonrpc.CodeAPIError, fmt.Sprintf("addRoom error: %v", err)
	}
	return jsonrpc.CodeOK, "addRoom: success"
}

func (d *Dispatcher) delRoom(req jsonrpc.Request) (jsonrpc.Code, string) {
	var p nameParams
	if err := req.DecodeParams(&p); err != nil {
		return jsonrpc.CodeInvalidParams, fmt.Sprintf("delRoom error: %v", err)
	}
	if err := d.home.DelRoom(p.Name); err != nil {
		return jsonrpc.CodeAPIError, fmt.Sprintf("delRoom error: %v", err)
	}
	return jsonrpc.CodeOK, "delRoom: success"
}

func (d *Dispatcher) getDevices(req jsonrpc.Request) (jsonrpc.Code, string) {
	var p nameParams
	if err := req.DecodeParams(&p); err != nil {
		return jsonrpc.CodeInvalidParams, fmt.Sprintf("error: %v", err)
	}
	names, err := d.home.Devices(p.Name)
	if err != nil {
		return jsonrpc.CodeAPIError, fmt.Sprintf("error: %v", err)
	}
	return jsonrpc.CodeOK, strings.Join(names, ";")
}

func (d *Dispatcher) createProviderReport(req jsonrpc.Request) (jsonrpc.Code, string) {
	var p providerParams
	if err := req.DecodeParams(&p); err != nil {
		return jsonrpc.CodeInvalidParams, fmt.Sprintf("error: %v", err)
	}
	provider, err := home.ParseProvider(p.Provider)
	if err != nil {
		return jsonrpc.CodeInvalidParams, fmt.Sprintf("error: %v", err)
	}
	return jsonrpc.CodeOK, d.home.CreateFilteredReport(provider)
}

func (d *Dispatcher) deviceExecute(req jsonrpc.Request) (jsonrpc.Code, string, *StateChange) {
	var p deviceParams
	if err := req.DecodeParams(&p); err != nil {
		return jsonrpc.CodeInvalidParams, fmt.Sprintf("error: %v", err), nil
	}

	dev, err := d.home.Device(p.Room, p.Device)
	if err != nil {
		return jsonrpc.CodeAPIError, fmt.Sprintf("error: %v", err), nil
	}

	switch p.Command {
	case CommandGetName:
		return jsonrpc.CodeOK, dev.Name(), nil
	case CommandGetDescription:
		return jsonrpc.CodeOK, dev.Description(), nil
	case CommandGetCurrentInfo:
		return jsonrpc.CodeOK, dev.CurrentInfo(), nil
	case CommandReport:
		return jsonrpc.CodeOK, dev.Report(), nil
	case CommandSwitch:
		target, err := switchTarget(p.Data)
		if err != nil {
			return jsonrpc.CodeInvalidParams, err.Error(), nil
		}

		from := dev.State()
		result := dev.Switch(target)

		var change *StateChange
		if to := dev.State(); to != from {
			change = &StateChange{Room: p.Room, Device: p.Device, From: from, To: to}
		}
		return jsonrpc.CodeOK, result, change
	default:
		return jsonrpc.CodeMethodNotFound, "wrong device command", nil
	}
}

// switchTarget reads the target state from the first data element, which
// must be one of the strings "on", "off" or "broken".
func switchTarget(data []json.RawMessage) (device.State, error) {
	if len(data) == 0 {
		return 0, errors.New("wrong status provided: none")
	}

	var name string
	if err := json.Unmarshal(data[0], &name); err != nil {
		return 0, fmt.Errorf("wrong status provided: %s", data[0])
	}

	state, err := device.ParseState(name)
	if err != nil {
		return 0, fmt.Errorf("wrong status provided: %s", name)
	}
	return state, nil
}
