package resolver

import "os"

// statDir reports whether path exists and is a directory. A missing path
// is not an error: callers turn that into an Unresolvable outcome.
func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
