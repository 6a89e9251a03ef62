package utils

import (
	"io"
	"net/http"
	"os"
	"unicode/utf8"
)

// sniffLength defines the maximum number of bytes read when sniffing file content.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return false
}

// IsFileBinary reads up to sniffLength bytes from the file at path and determines
// if the content appears to be binary.
func IsFileBinary(path string) bool {
	data, readError := sniffFile(path)
	if readError != nil {
		return false
	}
	return IsBinary(data)
}

// DetectMimeType returns the MIME type of the file at path using
// http.DetectContentType over the sniffed leading bytes. If the file cannot
// be read, an empty string is returned.
func DetectMimeType(path string) string {
	data, readError := sniffFile(path)
	if readError != nil {
		return ""
	}
	return http.DetectContentType(data)
}

func sniffFile(path string) ([]byte, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return nil, readError
	}
	return buffer[:bytesRead], nil
}
