package linker

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// Ownership applies permissions and ownership to created links and
// directories. A zero mode leaves permissions alone; an id of -1 leaves
// the owner or group alone.
type Ownership struct {
	FileMode os.FileMode
	DirMode  os.FileMode
	UID      int
	GID      int
}

// NewOwnership resolves user and group names (or numeric ids).
// Empty names map to -1.
func NewOwnership(fileMode, dirMode os.FileMode, userName, groupName string) (*Ownership, error) {
	o := &Ownership{FileMode: fileMode, DirMode: dirMode, UID: -1, GID: -1}
	if userName != "" {
		uid, err := lookupID(userName, func(n string) (string, error) {
			u, err := user.Lookup(n)
			if err != nil {
				return "", err
			}
			return u.Uid, nil
		})
		if err != nil {
			return nil, fmt.Errorf("lookup user %q: %w", userName, err)
		}
		o.UID = uid
	}
	if groupName != "" {
		gid, err := lookupID(groupName, func(n string) (string, error) {
			g, err := user.LookupGroup(n)
			if err != nil {
				return "", err
			}
			return g.Gid, nil
		})
		if err != nil {
			return nil, fmt.Errorf("lookup group %q: %w", groupName, err)
		}
		o.GID = gid
	}
	return o, nil
}

func lookupID(name string, lookup func(string) (string, error)) (int, error) {
	if id, err := strconv.Atoi(name); err == nil {
		return id, nil
	}
	s, err := lookup(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// ApplyFile sets mode and ownership on a created link.
func (o *Ownership) ApplyFile(path string) error {
	return o.apply(path, o.FileMode)
}

// ApplyDir sets mode and ownership on a created directory.
func (o *Ownership) ApplyDir(path string) error {
	return o.apply(path, o.DirMode)
}

func (o *Ownership) apply(path string, mode os.FileMode) error {
	if mode != 0 {
		if err := os.Chmod(path, mode); err != nil {
			return fmt.Errorf("chmod %s: %w", path, err)
		}
	}
	if o.UID >= 0 || o.GID >= 0 {
		if err := os.Chown(path, o.UID, o.GID); err != nil {
			return fmt.Errorf("chown %s: %w", path, err)
		}
	}
	return nil
}
