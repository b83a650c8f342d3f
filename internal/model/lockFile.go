package model

// LockFile marks a running interactive tracker session.
type LockFile struct {
	ID        string `yaml:"id"`
	User      string `yaml:"user"`
	Pid       int    `yaml:"pid"`
	DataFile  string `yaml:"data_file"`
	TimeStamp string `yaml:"timestamp"`
}
