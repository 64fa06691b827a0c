package camera

// ListDevices probes device ids [0, maxTries) and returns the ids
// that opened successfully. Each candidate is test-opened and released
// immediately; a device that fails to open is simply skipped.
func ListDevices(maxTries int) []int {
	return ListDevicesWith(OpenWebcam, maxTries)
}

// ListDevicesWith is ListDevices with a custom OpenFunc.
func ListDevicesWith(open OpenFunc, maxTries int) []int {
	var found []int
	for id := 0; id < maxTries; id++ {
		dev, err := open(id)
		if err != nil {
			continue
		}
		if dev.IsOpened() {
			found = append(found, id)
		}
		dev.Close()
	}
	return found
}
