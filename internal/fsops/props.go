package fsops

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Props carries the stat fields shown by the properties popup.
type Props struct {
	Name    string
	Path    string
	Size    int64
	IsDir   bool
	Mode    os.FileMode
	ModTime time.Time
	CTime   time.Time
	UID     uint32
	GID     uint32
	Inode   uint64
}

// Stat returns the properties of the entry at path.
func Stat(path string) (Props, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Props{}, translate(err)
	}

	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Props{}, translate(err)
	}

	return Props{
		Name:    info.Name(),
		Path:    path,
		Size:    info.Size(),
		IsDir:   info.IsDir(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		CTime:   time.Unix(st.Ctim.Unix()),
		UID:     st.Uid,
		GID:     st.Gid,
		Inode:   st.Ino,
	}, nil
}
