/*
Package id3 reads and edits ID3v2 tags held in memory.

All functions operate on a byte buffer that starts with the tag
header. Parsed values (Header, ExtendedHeader, Footer, Frame) are
copies and never alias the buffer.

Layout

A tag consists of a 10 byte header, an optional extended header, a
sequence of frames, optional padding and an optional 10 byte footer.
The size in the header counts everything between header and footer.

Sizes in the header, the extended header and the CRC data are stored
as synchsafe integers, using only the lower 7 bits of every byte.
Frame sizes are plain big-endian integers and count the two flag
bytes plus the content.

Reading frames

Frames are read with a Cursor, or all at once with EnumerateFrames.
Traversal stops at the first all-zero frame ID, which marks the
beginning of padding, or at the end of the tag.

Editing

The mutating functions (WriteHeader, WriteFooter, WriteExtendedHeader,
UpsertFrame, InsertFrame, RemoveFrames, Pad) validate everything before
touching any byte. They return the updated buffer; on error the
original buffer is returned unmodified. After every successful edit
the header size matches the contents, the footer mirrors the header
and CRC data, if present, is recomputed.

Concurrent edits of the same buffer must be serialized by the caller.
*/
package id3
