/*
 * Copyright 2024 The Venuemaps Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package document

import (
	"net/http"

	"github.com/tinylib/msgp/msgp"
)

// MarshalMsg implements msgp.Marshaler
func (z *Document) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	o = msgp.AppendMapHeader(o, 5)
	o = msgp.AppendString(o, "status_code")
	o = msgp.AppendInt(o, z.StatusCode)
	o = msgp.AppendString(o, "status")
	o = msgp.AppendString(o, z.Status)
	o = msgp.AppendString(o, "headers")
	o = msgp.AppendMapHeader(o, uint32(len(z.Header)))
	for k, vals := range z.Header {
		o = msgp.AppendString(o, k)
		o = msgp.AppendArrayHeader(o, uint32(len(vals)))
		for _, v := range vals {
			o = msgp.AppendString(o, v)
		}
	}
	o = msgp.AppendString(o, "body")
	o = msgp.AppendBytes(o, z.Body)
	o = msgp.AppendString(o, "stored_at")
	o = msgp.AppendTime(o, z.StoredAt)
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *Document) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	var fields uint32
	fields, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		err = msgp.WrapError(err)
		return
	}
	for fields > 0 {
		fields--
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			err = msgp.WrapError(err)
			return
		}
		switch msgp.UnsafeString(field) {
		case "status_code":
			z.StatusCode, bts, err = msgp.ReadIntBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "StatusCode")
				return
			}
		case "status":
			z.Status, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "Status")
				return
			}
		case "headers":
			var n uint32
			n, bts, err = msgp.ReadMapHeaderBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "Header")
				return
			}
			z.Header = make(http.Header, n)
			for n > 0 {
				n--
				var k string
				var cnt uint32
				k, bts, err = msgp.ReadStringBytes(bts)
				if err != nil {
					err = msgp.WrapError(err, "Header")
					return
				}
				cnt, bts, err = msgp.ReadArrayHeaderBytes(bts)
				if err != nil {
					err = msgp.WrapError(err, "Header", k)
					return
				}
				vals := make([]string, cnt)
				for i := range vals {
					vals[i], bts, err = msgp.ReadStringBytes(bts)
					if err != nil {
						err = msgp.WrapError(err, "Header", k, i)
						return
					}
				}
				z.Header[k] = vals
			}
		case "body":
			z.Body, bts, err = msgp.ReadBytesBytes(bts, z.Body)
			if err != nil {
				err = msgp.WrapError(err, "Body")
				return
			}
		case "stored_at":
			z.StoredAt, bts, err = msgp.ReadTimeBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "StoredAt")
				return
			}
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				err = msgp.WrapError(err)
				return
			}
		}
	}
	o = bts
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (z *Document) Msgsize() (s int) {
	s = 1 + 12 + msgp.IntSize + 7 + msgp.StringPrefixSize + len(z.Status) + 8 + msgp.MapHeaderSize
	for k, vals := range z.Header {
		s += msgp.StringPrefixSize + len(k) + msgp.ArrayHeaderSize
		for _, v := range vals {
			s += msgp.StringPrefixSize + len(v)
		}
	}
	s += 5 + msgp.BytesPrefixSize + len(z.Body) + 10 + msgp.TimeSize
	return
}
